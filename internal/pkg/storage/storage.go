package storage

import (
	"context"
	"errors"
)

// Backend define o contrato de interface para qualquer meio de persistência
// de snapshots que o Repositório possa usar. Isso segue o Princípio da
// Inversão de Dependência (DIP) da Clean Architecture: o Repositório conhece
// apenas bytes e chaves, nunca o meio concreto (arquivo, Redis, PostgreSQL,
// MinIO).
type Backend interface {
	// Read recupera os bytes associados a uma chave. Chave inexistente
	// retorna ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write grava os bytes de uma chave, substituindo o conteúdo anterior.
	Write(ctx context.Context, key string, data []byte) error

	// Close libera os recursos do backend (conexões, descritores).
	Close() error
}

// ErrNotFound é retornado quando a chave não existe no backend.
// A primeira carga de um sistema novo passa por aqui: o Repositório traduz
// este erro em "começar com o estado vazio", nunca em falha.
var ErrNotFound = errors.New("storage: chave não encontrada")
