package userservice

import (
	"context"
	"sync"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/token"
)

// CredentialRepository define o contrato que o Serviço de Usuários espera da
// camada de Persistência.
type CredentialRepository interface {
	Load(ctx context.Context) (*domain.CredentialStore, error)
	Save(ctx context.Context, store *domain.CredentialStore) error
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(username string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service é a camada de negócio de usuários: registro, autenticação, troca
// de senha e emissão de tokens de sessão. Mesma disciplina do inventário:
// mutex nas operações, autosave após mutação, senhas nunca logadas.
type Service struct {
	repo     CredentialRepository
	tokenSvc TokenService
	logger   logger.Logger

	mu    sync.Mutex
	store *domain.CredentialStore
}

// NewService cria uma nova instância do Serviço de Usuários, injetando o
// Repositório e o serviço de token.
func NewService(repo CredentialRepository, tokenSvc TokenService, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
		logger:   log,
		store:    domain.NewCredentialStore(),
	}
}

// Load substitui o estado em memória pelo snapshot persistido.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar o snapshot de usuários.", err)
		return err
	}
	s.store = store

	s.logger.Info("Usuários carregados.", map[string]interface{}{
		"users": store.Len(),
	})
	return nil
}

// Save persiste o estado atual explicitamente.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave(ctx)
}

// autosave persiste o snapshot após uma mutação. Deve ser chamado com o
// mutex já adquirido.
func (s *Service) autosave(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.store); err != nil {
		s.logger.Error("Falha ao persistir o snapshot de usuários.", err)
		return err
	}
	return nil
}

// AddUser registra um novo usuário no sistema e persiste. A senha é
// hasheada antes de tocar o snapshot; o papel vem como texto da entrada do
// operador e é validado aqui.
func (s *Service) AddUser(ctx context.Context, username, password, roleValue string) (*domain.User, error) {
	s.logger.Debug("Iniciando registro de usuário no serviço.", map[string]interface{}{
		"username": username,
		"role":     roleValue,
	})

	role, err := domain.ParseRole(roleValue)
	if err != nil {
		s.logger.Warn("Validação falhou no registro de usuário.", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.AddUser(username, password, role)
	if err != nil {
		s.logger.Warn("Validação falhou no registro de usuário.", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}
	if err := s.autosave(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Usuário registrado com sucesso.", map[string]interface{}{
		"username": user.Username(),
		"role":     string(user.Role()),
	})
	return user, nil
}

// Authenticate verifica as credenciais. A mensagem e o log não diferenciam
// usuário desconhecido de senha incorreta, para não dar dicas a invasores.
func (s *Service) Authenticate(username, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.Authenticate(username, password)
	if err != nil {
		s.logger.Warn("Tentativa de autenticação falhou.", map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	s.logger.Info("Usuário autenticado.", map[string]interface{}{
		"username": user.Username(),
		"role":     string(user.Role()),
	})
	return user, nil
}

// Login autentica o usuário e, se a senha estiver correta, gera o JWT de
// sessão. Depois do login a senha não circula mais: a sessão é o token.
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return "", err
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.Username(), string(user.Role()))
	if err != nil {
		s.logger.Error("Falha ao gerar o token de sessão.", err)
		return "", apperror.NewInternalError("Falha ao gerar o token de autenticação.", err)
	}
	return tokenString, nil
}

// ValidateToken valida um token de sessão e retorna as claims.
func (s *Service) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	claims, err := s.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.NewAuthenticationError()
	}
	return claims, nil
}

// ChangePassword troca a senha de um usuário após reautenticá-lo com a
// senha atual, e persiste. A senha antiga deixa de valer imediatamente.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ChangePassword(username, oldPassword, newPassword); err != nil {
		s.logger.Warn("Troca de senha rejeitada.", map[string]interface{}{
			"username": username,
		})
		return err
	}
	if err := s.autosave(ctx); err != nil {
		return err
	}

	s.logger.Info("Senha alterada com sucesso.", map[string]interface{}{
		"username": username,
	})
	return nil
}

// ListUsers lista os usuários ordenados por nome de usuário.
func (s *Service) ListUsers() []*domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Users()
}

// EnsureDefaultAdmin semeia o administrador padrão apenas quando não
// existe nenhum usuário registrado. Retorna true se semeou.
// Um snapshot já populado nunca é semeado de novo, mesmo que o admin
// padrão tenha sido removido do arquivo à mão.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.IsEmpty() {
		s.logger.Debug("Semeadura ignorada: já existem usuários registrados.", map[string]interface{}{
			"users": s.store.Len(),
		})
		return false, nil
	}

	if _, err := s.store.AddUser(username, password, domain.RoleAdmin); err != nil {
		s.logger.Error("Falha ao semear o administrador padrão.", err)
		return false, err
	}
	if err := s.autosave(ctx); err != nil {
		return false, err
	}

	s.logger.Warn("Administrador padrão criado. Altere a senha imediatamente.", map[string]interface{}{
		"username": username,
	})
	return true, nil
}
