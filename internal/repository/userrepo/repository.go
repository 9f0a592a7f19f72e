package userrepo

import (
	"context"
	"encoding/json"
	"errors"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/storage"
)

// UserRepository traduz entre o repositório de credenciais em memória e o
// snapshot JSON persistido no Backend.
type UserRepository struct {
	Backend storage.Backend
	Key     string
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o Backend.
func NewUserRepository(backend storage.Backend, key string) *UserRepository {
	return &UserRepository{
		Backend: backend,
		Key:     key,
	}
}

// Load lê o snapshot e reconstrói o repositório de credenciais.
// Chave inexistente significa primeira execução: retorna um repositório
// vazio (é a condição que dispara a semeadura do administrador padrão).
func (r *UserRepository) Load(ctx context.Context) (*domain.CredentialStore, error) {
	data, err := r.Backend.Read(ctx, r.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewCredentialStore(), nil
		}
		return nil, apperror.NewPersistenceError("Falha ao ler o snapshot de usuários.", err)
	}

	var records map[string]domain.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperror.NewPersistenceError("O snapshot de usuários está corrompido.", err)
	}
	store, err := domain.CredentialStoreFromRecords(records)
	if err != nil {
		return nil, apperror.NewPersistenceError("O snapshot de usuários contém registros inválidos.", err)
	}
	return store, nil
}

// Save serializa o repositório de credenciais completo e o grava no Backend.
// Apenas hashes são gravados, nunca senhas.
func (r *UserRepository) Save(ctx context.Context, store *domain.CredentialStore) error {
	data, err := json.MarshalIndent(store.Records(), "", "  ")
	if err != nil {
		return apperror.NewPersistenceError("Falha ao serializar os usuários.", err)
	}
	if err := r.Backend.Write(ctx, r.Key, data); err != nil {
		return apperror.NewPersistenceError("Falha ao gravar o snapshot de usuários.", err)
	}
	return nil
}
