package userservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/token"
	"goinventory/internal/service/userservice"
)

// MockCredentialRepository é uma implementação mock da interface CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Load(ctx context.Context) (*domain.CredentialStore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CredentialStore), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, store *domain.CredentialStore) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(username string, userRole string) (string, error) {
	args := m.Called(username, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.CustomClaims), args.Error(1)
}

// newTestService monta o serviço com repositório mock e um serviço de token
// real, para que os cenários de login validem tokens de verdade.
func newTestService(mockRepo *MockCredentialRepository) *userservice.Service {
	tokenSvc := token.NewService("segredo-de-teste", time.Hour)
	return userservice.NewService(mockRepo, tokenSvc, logger.NewLogger("debug"))
}

// TestAddUser_Success testa o registro de usuário com persistência.
func TestAddUser_Success(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	user, err := svc.AddUser(ctx, "alice", "secret123", "manager")

	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username())
	assert.Equal(t, domain.RoleManager, user.Role())
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestAddUser_Fail_InvalidRole testa que papel desconhecido não chega ao
// repositório.
func TestAddUser_Fail_InvalidRole(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "root")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "root")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestAddUser_Fail_Duplicate testa a rejeição de nome de usuário repetido.
func TestAddUser_Fail_Duplicate(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "user")
	assert.NoError(t, err)

	_, err = svc.AddUser(ctx, "alice", "outra-senha", "user")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "já está registrado")
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestLogin_Success testa o cenário de referência: registrar alice como
// manager, falhar com senha errada e receber um token válido com a correta.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "manager")
	assert.NoError(t, err)

	_, err = svc.Login("alice", "wrong")
	assert.Error(t, err)
	assert.IsType(t, &apperror.AuthenticationError{}, err)

	tokenString, err := svc.Login("alice", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// O token emitido carrega o usuário e o papel nas claims
	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "manager", claims.Role)
}

// TestLogin_Fail_UnknownUser testa que usuário desconhecido e senha errada
// produzem o mesmo erro de credenciais.
func TestLogin_Fail_UnknownUser(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	_, err := svc.Login("mallory", "qualquer")

	assert.Error(t, err)
	assert.IsType(t, &apperror.AuthenticationError{}, err)
	assert.Contains(t, err.Error(), "Credenciais inválidas.")
}

// TestLogin_Fail_TokenGeneration testa que uma falha na assinatura do token
// vira um erro interno, e não um erro de persistência: nenhum snapshot
// participa da emissão do token.
func TestLogin_Fail_TokenGeneration(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	mockToken := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockToken, logger.NewLogger("debug"))

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)
	// Simular que a assinatura do token falha
	mockToken.On("GenerateToken", "alice", "user").
		Return("", errors.New("chave de assinatura indisponível"))

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "user")
	assert.NoError(t, err)

	tokenString, err := svc.Login("alice", "secret123")

	assert.Error(t, err)
	assert.Empty(t, tokenString)
	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "token")
	mockToken.AssertExpectations(t)
}

// TestValidateToken_Fail testa a rejeição de tokens ilegíveis, assinados com
// outro segredo ou expirados.
func TestValidateToken_Fail(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	// Token ilegível
	_, err := svc.ValidateToken("nao-e-um-token")
	assert.IsType(t, &apperror.AuthenticationError{}, err)

	// Token assinado com outro segredo
	foreign := token.NewService("outro-segredo", time.Hour)
	foreignToken, err := foreign.GenerateToken("alice", "admin")
	assert.NoError(t, err)
	_, err = svc.ValidateToken(foreignToken)
	assert.IsType(t, &apperror.AuthenticationError{}, err)

	// Token já expirado na emissão
	expired := token.NewService("segredo-de-teste", -time.Minute)
	expiredToken, err := expired.GenerateToken("alice", "admin")
	assert.NoError(t, err)
	_, err = svc.ValidateToken(expiredToken)
	assert.IsType(t, &apperror.AuthenticationError{}, err)
}

// TestChangePassword_Success testa que a senha antiga deixa de valer
// imediatamente após a troca.
func TestChangePassword_Success(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "user")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, "alice", "secret123", "nova-senha")
	assert.NoError(t, err)

	_, err = svc.Login("alice", "secret123")
	assert.IsType(t, &apperror.AuthenticationError{}, err)

	tokenString, err := svc.Login("alice", "nova-senha")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

// TestChangePassword_Fail_WrongCurrent testa a reautenticação obrigatória na
// troca de senha.
func TestChangePassword_Fail_WrongCurrent(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "user")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, "alice", "wrong", "nova-senha")

	assert.Error(t, err)
	assert.IsType(t, &apperror.AuthenticationError{}, err)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestEnsureDefaultAdmin_SeedsOnce testa a semeadura do administrador padrão:
// repositório vazio semeia exatamente uma vez; chamadas seguintes não fazem nada.
func TestEnsureDefaultAdmin_SeedsOnce(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	seeded, err := svc.EnsureDefaultAdmin(ctx, "admin", "admin123")
	assert.NoError(t, err)
	assert.True(t, seeded)

	// Segunda chamada não semeia de novo nem persiste nada
	seeded, err = svc.EnsureDefaultAdmin(ctx, "admin", "admin123")
	assert.NoError(t, err)
	assert.False(t, seeded)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)

	// O admin semeado autentica com papel admin
	tokenString, err := svc.Login("admin", "admin123")
	assert.NoError(t, err)
	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	users := svc.ListUsers()
	assert.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username())
}

// TestEnsureDefaultAdmin_SkipsPopulatedStore testa que um repositório já
// populado nunca é semeado, mesmo sem nenhum usuário admin.
func TestEnsureDefaultAdmin_SkipsPopulatedStore(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(nil)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "bob", "secret123", "user")
	assert.NoError(t, err)

	seeded, err := svc.EnsureDefaultAdmin(ctx, "admin", "admin123")

	assert.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, svc.ListUsers(), 1)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

// TestLoad_Success_ReplacesState testa que o carregamento substitui o estado
// em memória pelo snapshot persistido.
func TestLoad_Success_ReplacesState(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	persisted := domain.NewCredentialStore()
	_, err := persisted.AddUser("bob", "secret123", domain.RoleUser)
	assert.NoError(t, err)

	mockRepo.On("Load", mock.AnythingOfType("context.backgroundCtx")).
		Return(persisted, nil)

	ctx := context.Background()
	err = svc.Load(ctx)

	assert.NoError(t, err)
	users := svc.ListUsers()
	assert.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username())
	mockRepo.AssertExpectations(t)
}

// TestLoad_Fail_CorruptSnapshot testa que um snapshot ilegível não substitui
// o estado atual.
func TestLoad_Fail_CorruptSnapshot(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	loadErr := apperror.NewPersistenceError("O snapshot de usuários está corrompido.", errors.New("unexpected end of JSON input"))
	mockRepo.On("Load", mock.AnythingOfType("context.backgroundCtx")).
		Return(nil, loadErr)

	ctx := context.Background()
	err := svc.Load(ctx)

	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)
	assert.Empty(t, svc.ListUsers())
	mockRepo.AssertExpectations(t)
}

// TestAutosave_Fail_KeepsMutationInMemory testa que a mutação permanece em
// memória quando a gravação do snapshot falha.
func TestAutosave_Fail_KeepsMutationInMemory(t *testing.T) {
	mockRepo := new(MockCredentialRepository)
	svc := newTestService(mockRepo)

	saveErr := apperror.NewPersistenceError("Falha ao gravar o snapshot.", errors.New("disco cheio"))
	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("*domain.CredentialStore")).
		Return(saveErr)

	ctx := context.Background()
	_, err := svc.AddUser(ctx, "alice", "secret123", "user")

	assert.Error(t, err)
	assert.IsType(t, &apperror.PersistenceError{}, err)
	assert.Len(t, svc.ListUsers(), 1)
	mockRepo.AssertExpectations(t)
}
