package inventoryservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/service/inventoryservice"
)

// MockSnapshotRepository é uma implementação mock da interface SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Catalog), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, catalog *domain.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

// newTestService monta o serviço com repositório mock e limite de estoque baixo 5.
func newTestService(mockRepo *MockSnapshotRepository) *inventoryservice.Service {
	return inventoryservice.NewService(mockRepo, logger.NewLogger("debug"), 5)
}

// laptopInput é a entrada de referência usada nos cenários de estoque.
func laptopInput() inventoryservice.ProductInput {
	return inventoryservice.ProductInput{
		Name:       "Laptop",
		Price:      1200.00,
		Quantity:   5,
		Category:   "Electronics",
		Weight:     2.1,
		Dimensions: domain.Dimensions{Length: 30, Width: 20, Height: 2},
	}
}

// TestCreateProduct_Success testa a criação de um produto físico com persistência.
func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	// Mock do comportamento do repositório: o autosave grava o snapshot
	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID())
	assert.Equal(t, "Laptop", product.Name())
	assert.Equal(t, 6000.00, product.TotalValue())
	assert.Len(t, svc.ListProducts(), 1)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestCreateProduct_Success_AllKinds testa que cada variante usa os campos
// específicos da sua entrada.
func TestCreateProduct_Success_AllKinds(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()

	digital, err := svc.CreateProduct(ctx, domain.KindDigital, inventoryservice.ProductInput{
		Name: "Ebook", Price: 9.90, Quantity: 100, Category: "Books",
		FileSizeMB: 1.5, DownloadLink: "https://example.com/ebook",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1.5, digital.(*domain.DigitalProduct).FileSizeMB())

	service, err := svc.CreateProduct(ctx, domain.KindService, inventoryservice.ProductInput{
		Name: "Consultoria", Price: 150.00, Quantity: 3, Category: "Services",
		DurationMinutes: 60, ServiceType: "Premium",
	})
	assert.NoError(t, err)
	assert.Equal(t, 60, service.(*domain.ServiceProduct).DurationMinutes())

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

// TestCreateProduct_Fail_Validation testa que entrada inválida não chega ao
// catálogo nem ao repositório.
func TestCreateProduct_Fail_Validation(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	input := laptopInput()
	input.Price = -10.00 // Preço negativo viola a invariante

	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, domain.KindPhysical, input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Empty(t, svc.ListProducts())
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_Fail_UnknownKind testa a rejeição de variante desconhecida.
func TestCreateProduct_Fail_UnknownKind(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, domain.Kind("hologram"), laptopInput())

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "hologram")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestAddRemoveStock_Success testa entrada e saída de estoque com persistência
// a cada mutação.
func TestAddRemoveStock_Success(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	updated, err := svc.AddStock(ctx, product.ID(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity())

	updated, err = svc.RemoveStock(ctx, product.ID(), 8)
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity())

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 3) // criação + entrada + saída
}

// TestRemoveStock_Fail_InsufficientStock testa que remover mais do que o
// disponível falha sem alterar a quantidade e sem persistir.
func TestRemoveStock_Fail_InsufficientStock(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	_, err = svc.RemoveStock(ctx, product.ID(), 6)

	assert.Error(t, err)
	var stockErr *apperror.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	// A quantidade permanece intacta e apenas a criação foi persistida
	current, err := svc.GetProduct(product.ID())
	assert.NoError(t, err)
	assert.Equal(t, 5, current.Quantity())
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestBulkAdjust_Success testa o ajuste com sinal nas duas direções.
func TestBulkAdjust_Success(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	adjusted, err := svc.BulkAdjust(ctx, product.ID(), -3)
	assert.NoError(t, err)
	assert.Equal(t, 2, adjusted.Quantity())

	adjusted, err = svc.BulkAdjust(ctx, product.ID(), 10)
	assert.NoError(t, err)
	assert.Equal(t, 12, adjusted.Quantity())

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 3)
}

// TestBulkAdjust_Fail_ZeroDelta testa o caso onde o delta é zero.
func TestBulkAdjust_Fail_ZeroDelta(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	_, err = svc.BulkAdjust(ctx, product.ID(), 0)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "não pode ser zero")
	mockRepo.AssertNumberOfCalls(t, "Save", 1) // apenas a criação persistiu
}

// TestUpdateProduct_Success testa a atualização parcial com persistência.
func TestUpdateProduct_Success(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	newName := "Laptop Pro"
	newPrice := 1500.00
	updated, err := svc.UpdateProduct(ctx, product.ID(), domain.ProductUpdate{
		Name:  &newName,
		Price: &newPrice,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Laptop Pro", updated.Name())
	assert.Equal(t, 1500.00, updated.Price())
	assert.Equal(t, 5, updated.Quantity()) // Campo não informado permanece
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

// TestUpdateProduct_Fail_WrongKindField testa a rejeição de campo de outra
// variante na atualização.
func TestUpdateProduct_Fail_WrongKindField(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	fileSize := 1.5 // Campo de produto digital em um produto físico
	_, err = svc.UpdateProduct(ctx, product.ID(), domain.ProductUpdate{FileSizeMB: &fileSize})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestRemoveProduct testa a exclusão e a falha para ID inexistente.
func TestRemoveProduct(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	assert.NoError(t, svc.RemoveProduct(ctx, product.ID()))
	assert.Empty(t, svc.ListProducts())

	err = svc.RemoveProduct(ctx, product.ID())
	assert.IsType(t, &apperror.ProductNotFoundError{}, err)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

// TestAutosave_Fail_KeepsMutationInMemory testa a semântica do autosave:
// quando a gravação falha a mutação permanece em memória e o erro é propagado,
// para que o próximo salvamento bem-sucedido a cubra.
func TestAutosave_Fail_KeepsMutationInMemory(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	// Simular falha de gravação do snapshot
	saveErr := apperror.NewPersistenceError("Falha ao gravar o snapshot.", errors.New("disco cheio"))
	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(saveErr)

	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())

	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)
	assert.Len(t, svc.ListProducts(), 1)
	mockRepo.AssertExpectations(t)
}

// TestLoad_Success_ReplacesState testa que o carregamento substitui o estado
// em memória pelo snapshot persistido.
func TestLoad_Success_ReplacesState(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	persisted := domain.NewCatalog()
	laptop, err := domain.NewPhysicalProduct("Laptop", 1200.00, 5, "Electronics", 2.1, domain.Dimensions{Length: 30, Width: 20, Height: 2})
	assert.NoError(t, err)
	assert.NoError(t, persisted.Add(laptop))

	mockRepo.On("Load", mock.AnythingOfType("context.backgroundCtx")).
		Return(persisted, nil)

	ctx := context.Background()
	err = svc.Load(ctx)

	assert.NoError(t, err)
	listed := svc.ListProducts()
	assert.Len(t, listed, 1)
	assert.Equal(t, laptop.ID(), listed[0].ID())
	mockRepo.AssertExpectations(t)
}

// TestLoad_Fail_CorruptSnapshot testa que um snapshot ilegível não substitui
// o estado atual.
func TestLoad_Fail_CorruptSnapshot(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	loadErr := apperror.NewPersistenceError("O snapshot do inventário está corrompido.", errors.New("unexpected end of JSON input"))
	mockRepo.On("Load", mock.AnythingOfType("context.backgroundCtx")).
		Return(nil, loadErr)

	ctx := context.Background()
	err := svc.Load(ctx)

	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)
	assert.Empty(t, svc.ListProducts())
	mockRepo.AssertExpectations(t)
}

// TestImportJSON_Success_ReplacesCatalog testa que a importação substitui o
// catálogo inteiro pelo documento, preservando a ordem dos registros.
func TestImportJSON_Success_ReplacesCatalog(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	// Documento com dois produtos novos
	ebook, err := domain.NewDigitalProduct("Ebook", 9.90, 100, "Books", 1.5, "")
	assert.NoError(t, err)
	support, err := domain.NewServiceProduct("Suporte", 80.00, 10, "Services", 30, "")
	assert.NoError(t, err)
	data, err := json.Marshal([]domain.ProductRecord{ebook.Record(), support.Record()})
	assert.NoError(t, err)

	count, err := svc.ImportJSON(ctx, data)

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	listed := svc.ListProducts()
	assert.Len(t, listed, 2)
	assert.Equal(t, ebook.ID(), listed[0].ID())
	assert.Equal(t, support.ID(), listed[1].ID())
	mockRepo.AssertExpectations(t)
}

// TestImportJSON_Fail_KeepsCatalog testa que a importação é tudo-ou-nada:
// documento inválido não altera o catálogo nem persiste nada.
func TestImportJSON_Fail_KeepsCatalog(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)

	// JSON malformado
	_, err = svc.ImportJSON(ctx, []byte(`[{"id": "p-1"`))
	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)

	// JSON válido com registro de variante desconhecida
	_, err = svc.ImportJSON(ctx, []byte(`[{"id": "p-1", "name": "X", "price": 1, "quantity": 1, "category": "Misc", "kind": "hologram"}]`))
	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)

	// O catálogo original permanece intacto
	listed := svc.ListProducts()
	assert.Len(t, listed, 1)
	assert.Equal(t, product.ID(), listed[0].ID())
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestExportImport_RoundTrip testa que o documento exportado é aceito de
// volta pela importação com os mesmos produtos.
func TestExportImport_RoundTrip(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	first, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput())
	assert.NoError(t, err)
	second, err := svc.CreateProduct(ctx, domain.KindService, inventoryservice.ProductInput{
		Name: "Consultoria", Price: 150.00, Quantity: 3, Category: "Services", DurationMinutes: 60,
	})
	assert.NoError(t, err)

	data, err := svc.ExportJSON()
	assert.NoError(t, err)

	other := newTestService(mockRepo)
	count, err := other.ImportJSON(ctx, data)

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	listed := other.ListProducts()
	assert.Equal(t, first.ID(), listed[0].ID())
	assert.Equal(t, second.ID(), listed[1].ID())
}

// TestDashboard testa o resumo do inventário com o limite configurado.
func TestDashboard(t *testing.T) {
	mockRepo := new(MockSnapshotRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.Catalog")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, domain.KindPhysical, laptopInput()) // quantidade 5, no limite
	assert.NoError(t, err)
	_, err = svc.CreateProduct(ctx, domain.KindPhysical, inventoryservice.ProductInput{
		Name: "Mouse", Price: 25.00, Quantity: 2, Category: "Electronics", Weight: 0.1,
		Dimensions: domain.Dimensions{Length: 1, Width: 1, Height: 1},
	})
	assert.NoError(t, err)
	_, err = svc.CreateProduct(ctx, domain.KindDigital, inventoryservice.ProductInput{
		Name: "Ebook", Price: 10.00, Quantity: 50, Category: "Books", FileSizeMB: 1.5,
	})
	assert.NoError(t, err)

	dashboard := svc.Dashboard()

	assert.Equal(t, 3, dashboard.TotalProducts)
	assert.Equal(t, 6550.00, dashboard.TotalValue)
	assert.Equal(t, 2, dashboard.CountByKind[domain.KindPhysical])
	assert.Equal(t, 1, dashboard.CountByKind[domain.KindDigital])
	assert.Equal(t, 2, dashboard.LowStockCount) // Laptop (5) e Mouse (2)
	assert.Equal(t, 5, dashboard.LowStockThreshold)
}
