package domain

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperror "goinventory/internal/errors"
)

// UserRole define o papel de um usuário no sistema.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

// ParseRole normaliza e valida um papel vindo de entrada externa.
// Valor vazio assume o papel padrão "user".
func ParseRole(value string) (UserRole, error) {
	role := UserRole(strings.ToLower(strings.TrimSpace(value)))
	if role == "" {
		return RoleUser, nil
	}
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return role, nil
	}
	return "", apperror.NewValidationError(fmt.Sprintf("Papel de usuário inválido: '%s'. Use: admin, manager ou user.", value))
}

// User é a Entidade de usuário. A senha nunca é mantida em texto puro:
// apenas o hash bcrypt fica em memória e no snapshot persistido.
type User struct {
	username     string
	passwordHash string
	role         UserRole
}

// NewUser cria um usuário com a senha já hasheada via bcrypt.
func NewUser(username, password string, role UserRole) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewValidationError("O nome de usuário não pode ser vazio.")
	}
	if password == "" {
		return nil, apperror.NewValidationError("A senha não pode ser vazia.")
	}
	if role == "" {
		role = RoleUser
	}
	if role != RoleAdmin && role != RoleManager && role != RoleUser {
		return nil, apperror.NewValidationError(fmt.Sprintf("Papel de usuário inválido: '%s'. Use: admin, manager ou user.", role))
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{username: username, passwordHash: hash, role: role}, nil
}

func (u *User) Username() string { return u.username }
func (u *User) Role() UserRole   { return u.role }

// VerifyPassword compara a senha candidata com o hash armazenado.
func (u *User) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(candidate)) == nil
}

// SetPassword substitui o hash pelo da nova senha. A senha antiga deixa de
// valer imediatamente. A verificação da senha antiga é responsabilidade de
// quem chama (CredentialStore.ChangePassword).
func (u *User) SetPassword(newPassword string) error {
	if newPassword == "" {
		return apperror.NewValidationError("A nova senha não pode ser vazia.")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.passwordHash = hash
	return nil
}

// Record produz a representação persistida do usuário.
func (u *User) Record() UserRecord {
	return UserRecord{
		Username:     u.username,
		PasswordHash: u.passwordHash,
		Role:         u.role,
	}
}

// UserRecord é a representação persistida de um usuário.
type UserRecord struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"password_hash"`
	Role         UserRole `json:"role"`
}

// UserFromRecord reconstrói o usuário a partir da representação persistida,
// preservando o hash gravado.
func UserFromRecord(rec UserRecord) (*User, error) {
	username := strings.TrimSpace(rec.Username)
	if username == "" {
		return nil, apperror.NewValidationError("O nome de usuário não pode ser vazio.")
	}
	if rec.PasswordHash == "" {
		return nil, apperror.NewValidationError(fmt.Sprintf("O usuário '%s' não possui hash de senha.", username))
	}
	role := rec.Role
	if role == "" {
		role = RoleUser
	}
	if role != RoleAdmin && role != RoleManager && role != RoleUser {
		return nil, apperror.NewValidationError(fmt.Sprintf("Papel de usuário inválido: '%s'. Use: admin, manager ou user.", rec.Role))
	}
	return &User{username: username, passwordHash: rec.PasswordHash, role: role}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewValidationError("Falha ao gerar o hash da senha.")
	}
	return string(hash), nil
}
