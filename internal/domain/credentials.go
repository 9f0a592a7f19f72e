package domain

import (
	"fmt"
	"sort"

	apperror "goinventory/internal/errors"
)

// CredentialStore é o agregado em memória de usuários, indexado por nome de
// usuário. Assim como o Catálogo, não é seguro para uso concorrente por si
// só; a serialização fica com a camada de Serviço.
type CredentialStore struct {
	users map[string]*User
}

// NewCredentialStore cria um repositório de credenciais vazio.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{users: make(map[string]*User)}
}

// AddUser cria e registra um novo usuário. Nome de usuário já registrado é
// um erro de validação.
func (s *CredentialStore) AddUser(username, password string, role UserRole) (*User, error) {
	user, err := NewUser(username, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Insert registra um usuário já construído (usado na desserialização de
// snapshots, onde o hash vem pronto do registro).
func (s *CredentialStore) Insert(user *User) error {
	if _, exists := s.users[user.Username()]; exists {
		return apperror.NewValidationError(fmt.Sprintf("O usuário '%s' já está registrado.", user.Username()))
	}
	s.users[user.Username()] = user
	return nil
}

// Authenticate verifica as credenciais. A mensagem de erro é a mesma para
// usuário desconhecido e senha incorreta, para não revelar quais nomes de
// usuário existem.
func (s *CredentialStore) Authenticate(username, password string) (*User, error) {
	user, exists := s.users[username]
	if !exists {
		return nil, apperror.NewAuthenticationError()
	}
	if !user.VerifyPassword(password) {
		return nil, apperror.NewAuthenticationError()
	}
	return user, nil
}

// ChangePassword troca a senha de um usuário após reautenticá-lo com a
// senha atual. A senha antiga deixa de valer imediatamente.
func (s *CredentialStore) ChangePassword(username, oldPassword, newPassword string) error {
	user, err := s.Authenticate(username, oldPassword)
	if err != nil {
		return err
	}
	return user.SetPassword(newPassword)
}

// Get busca um usuário pelo nome.
func (s *CredentialStore) Get(username string) (*User, bool) {
	user, exists := s.users[username]
	return user, exists
}

// Users lista os usuários ordenados por nome de usuário, para que listagens
// e exportações sejam determinísticas.
func (s *CredentialStore) Users() []*User {
	result := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username() < result[j].Username()
	})
	return result
}

// Len informa quantos usuários estão registrados.
func (s *CredentialStore) Len() int {
	return len(s.users)
}

// IsEmpty informa se não há nenhum usuário registrado (condição para a
// semeadura do administrador padrão).
func (s *CredentialStore) IsEmpty() bool {
	return len(s.users) == 0
}
