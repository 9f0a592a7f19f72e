package inventoryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
)

// SnapshotRepository define o contrato que o Serviço de Inventário espera da
// camada de Persistência.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Save(ctx context.Context, catalog *domain.Catalog) error
}

// ProductInput agrupa os campos de criação de um produto. Os campos
// específicos de variante só são considerados para o Kind correspondente.
type ProductInput struct {
	Name     string
	Price    float64
	Quantity int
	Category string

	// Produto físico
	Weight     float64
	Dimensions domain.Dimensions

	// Produto digital
	FileSizeMB   float64
	DownloadLink string

	// Serviço
	DurationMinutes int
	ServiceType     string
}

// DashboardView resume o estado do inventário para a tela inicial.
type DashboardView struct {
	TotalProducts     int
	TotalValue        float64
	CountByKind       map[domain.Kind]int
	LowStockCount     int
	LowStockThreshold int
}

// Service é a camada de negócio do inventário. Todas as operações são
// serializadas por um mutex, e cada mutação bem-sucedida persiste o snapshot
// (autosave), reproduzindo a disciplina de salvar-em-cada-escrita do fluxo
// original. Leituras nunca gravam.
type Service struct {
	repo      SnapshotRepository
	logger    logger.Logger
	threshold int

	mu      sync.Mutex
	catalog *domain.Catalog
}

// NewService cria e retorna uma nova instância do Serviço de Inventário.
// O limite de estoque baixo vem da configuração e alimenta o Dashboard.
func NewService(repo SnapshotRepository, log logger.Logger, lowStockThreshold int) *Service {
	return &Service{
		repo:      repo,
		logger:    log,
		threshold: lowStockThreshold,
		catalog:   domain.NewCatalog(),
	}
}

// Load substitui o estado em memória pelo snapshot persistido. Em caso de
// snapshot corrompido nada é substituído; quem chama decide entre abortar e
// seguir com o estado vazio.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar o snapshot do inventário.", err)
		return err
	}
	s.catalog = catalog

	s.logger.Info("Inventário carregado.", map[string]interface{}{
		"products": catalog.Len(),
	})
	return nil
}

// Save persiste o estado atual explicitamente (usado pelo comando de
// salvamento manual; as mutações já salvam sozinhas).
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave(ctx)
}

// autosave persiste o snapshot após uma mutação. Deve ser chamado com o
// mutex já adquirido. A mutação permanece em memória mesmo quando a gravação
// falha; o próximo salvamento bem-sucedido a cobre.
func (s *Service) autosave(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.catalog); err != nil {
		s.logger.Error("Falha ao persistir o snapshot do inventário.", err)
		return err
	}
	return nil
}

// CreateProduct valida e cria um produto da variante pedida, adiciona ao
// catálogo e persiste.
func (s *Service) CreateProduct(ctx context.Context, kind domain.Kind, input ProductInput) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto no serviço.", map[string]interface{}{
		"kind": string(kind),
		"name": input.Name,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		product domain.Product
		err     error
	)
	switch kind {
	case domain.KindPhysical:
		product, err = domain.NewPhysicalProduct(input.Name, input.Price, input.Quantity, input.Category, input.Weight, input.Dimensions)
	case domain.KindDigital:
		product, err = domain.NewDigitalProduct(input.Name, input.Price, input.Quantity, input.Category, input.FileSizeMB, input.DownloadLink)
	case domain.KindService:
		product, err = domain.NewServiceProduct(input.Name, input.Price, input.Quantity, input.Category, input.DurationMinutes, input.ServiceType)
	default:
		err = apperror.NewValidationError(fmt.Sprintf("Tipo de produto desconhecido: '%s'.", kind))
	}
	if err != nil {
		s.logger.Warn("Validação falhou na criação de produto.", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.catalog.Add(product); err != nil {
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{
		"product_id": product.ID(),
		"kind":       string(kind),
		"name":       product.Name(),
	})
	return product, nil
}

// GetProduct busca um produto pelo ID.
func (s *Service) GetProduct(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Get(id)
}

// RemoveProduct exclui um produto do catálogo e persiste.
func (s *Service) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Remove(id); err != nil {
		s.logger.Warn("Falha ao remover produto.", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return err
	}
	if err := s.autosave(ctx); err != nil {
		return err
	}

	s.logger.Info("Produto removido com sucesso.", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// UpdateProduct aplica uma atualização parcial a um produto e persiste.
// Campos que não pertencem à variante do produto são rejeitados.
func (s *Service) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	if err := product.ApplyUpdate(update); err != nil {
		s.logger.Warn("Validação falhou na atualização de produto.", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

// AddStock adiciona unidades ao estoque de um produto e persiste.
func (s *Service) AddStock(ctx context.Context, id string, amount int) (domain.Product, error) {
	s.logger.Debug("Iniciando entrada de estoque no serviço.", map[string]interface{}{
		"product_id": id,
		"amount":     amount,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	if err := product.AddStock(amount); err != nil {
		s.logger.Warn("Validação falhou na entrada de estoque.", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Estoque adicionado com sucesso.", map[string]interface{}{
		"product_id":   id,
		"amount":       amount,
		"new_quantity": product.Quantity(),
	})
	return product, nil
}

// RemoveStock remove unidades do estoque de um produto e persiste.
// Remover mais do que o disponível falha com InsufficientStockError e não
// altera nada.
func (s *Service) RemoveStock(ctx context.Context, id string, amount int) (domain.Product, error) {
	s.logger.Debug("Iniciando saída de estoque no serviço.", map[string]interface{}{
		"product_id": id,
		"amount":     amount,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	if err := product.RemoveStock(amount); err != nil {
		s.logger.Warn("Saída de estoque rejeitada.", map[string]interface{}{
			"product_id": id,
			"amount":     amount,
			"available":  product.Quantity(),
			"error":      err.Error(),
		})
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Estoque removido com sucesso.", map[string]interface{}{
		"product_id":   id,
		"amount":       amount,
		"new_quantity": product.Quantity(),
	})
	return product, nil
}

// BulkAdjust aplica um ajuste de estoque com sinal (positivo adiciona,
// negativo remove; zero é rejeitado) e persiste.
func (s *Service) BulkAdjust(ctx context.Context, id string, delta int) (domain.Product, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"product_id": id,
		"delta":      delta,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.catalog.BulkAdjust(id, delta)
	if err != nil {
		s.logger.Warn("Ajuste de estoque rejeitado.", map[string]interface{}{
			"product_id": id,
			"delta":      delta,
			"error":      err.Error(),
		})
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"product_id":   id,
		"delta":        delta,
		"new_quantity": product.Quantity(),
	})
	return product, nil
}

// ListProducts lista os produtos na ordem de inserção.
func (s *Service) ListProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.All()
}

// Search busca produtos por nome, categoria ou ID, sem diferenciar maiúsculas.
func (s *Service) Search(term string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(term)
}

// Filter retorna os produtos que satisfazem o filtro de variante/categoria.
func (s *Service) Filter(filter domain.ProductFilter) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filter(filter)
}

// SortBy retorna os produtos ordenados pelo campo informado.
func (s *Service) SortBy(field domain.SortField, ascending bool) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.SortBy(field, ascending)
}

// LowStock lista os produtos com quantidade menor ou igual ao limite.
func (s *Service) LowStock(threshold int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.LowStock(threshold)
}

// TotalValue soma o valor em estoque de todos os produtos.
func (s *Service) TotalValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.TotalValue()
}

// Dashboard resume o inventário: totais, contagem por variante e quantos
// produtos estão no limite de estoque baixo configurado.
func (s *Service) Dashboard() DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return DashboardView{
		TotalProducts:     s.catalog.Len(),
		TotalValue:        s.catalog.TotalValue(),
		CountByKind:       s.catalog.CountByKind(),
		LowStockCount:     len(s.catalog.LowStock(s.threshold)),
		LowStockThreshold: s.threshold,
	}
}

// ExportJSON serializa o catálogo atual no mesmo formato do snapshot,
// pronto para ser levado a outra instância.
func (s *Service) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.catalog.Records(), "", "  ")
	if err != nil {
		return nil, apperror.NewPersistenceError("Falha ao exportar o inventário.", err)
	}
	return data, nil
}

// ImportJSON substitui o catálogo inteiro pelo conteúdo importado.
// A importação é tudo-ou-nada: qualquer registro inválido rejeita o
// documento completo e o catálogo atual permanece intacto.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []domain.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Importação rejeitada: JSON inválido.", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, apperror.NewPersistenceError("O documento importado não é um JSON de inventário válido.", err)
	}
	catalog, err := domain.CatalogFromRecords(records)
	if err != nil {
		s.logger.Warn("Importação rejeitada: registros inválidos.", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, apperror.NewPersistenceError("O documento importado contém registros inválidos.", err)
	}

	s.catalog = catalog
	if err := s.autosave(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("Inventário importado com sucesso.", map[string]interface{}{
		"products": catalog.Len(),
	})
	return catalog.Len(), nil
}

// ClearAll esvazia o catálogo e persiste o estado vazio.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.Clear()
	if err := s.autosave(ctx); err != nil {
		return err
	}

	s.logger.Info("Inventário esvaziado.", nil)
	return nil
}
