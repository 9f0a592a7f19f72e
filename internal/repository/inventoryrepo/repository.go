package inventoryrepo

import (
	"context"
	"encoding/json"
	"errors"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/storage"
)

// InventoryRepository traduz entre o Catálogo em memória e o snapshot JSON
// persistido no Backend. Ele contém o meio de persistência injetado e a
// chave sob a qual o snapshot é gravado.
type InventoryRepository struct {
	Backend storage.Backend
	Key     string
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos a dependência de Infraestrutura (o Backend de snapshots).
func NewInventoryRepository(backend storage.Backend, key string) *InventoryRepository {
	return &InventoryRepository{
		Backend: backend,
		Key:     key,
	}
}

// Load lê o snapshot e reconstrói o catálogo completo.
// Chave inexistente significa primeira execução: retorna um catálogo vazio,
// nunca um erro. Snapshot corrompido retorna PersistenceError e não toca em
// nada; quem chama decide entre abortar e começar vazio.
func (r *InventoryRepository) Load(ctx context.Context) (*domain.Catalog, error) {
	data, err := r.Backend.Read(ctx, r.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewCatalog(), nil
		}
		return nil, apperror.NewPersistenceError("Falha ao ler o snapshot do inventário.", err)
	}

	var records []domain.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperror.NewPersistenceError("O snapshot do inventário está corrompido.", err)
	}
	catalog, err := domain.CatalogFromRecords(records)
	if err != nil {
		return nil, apperror.NewPersistenceError("O snapshot do inventário contém registros inválidos.", err)
	}
	return catalog, nil
}

// Save serializa o catálogo completo e o grava no Backend, substituindo o
// snapshot anterior.
func (r *InventoryRepository) Save(ctx context.Context, catalog *domain.Catalog) error {
	data, err := json.MarshalIndent(catalog.Records(), "", "  ")
	if err != nil {
		return apperror.NewPersistenceError("Falha ao serializar o inventário.", err)
	}
	if err := r.Backend.Write(ctx, r.Key, data); err != nil {
		return apperror.NewPersistenceError("Falha ao gravar o snapshot do inventário.", err)
	}
	return nil
}
