package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend persiste snapshots como arquivos JSON em um diretório local,
// uma chave por arquivo. É o backend padrão e o único sem dependências
// externas, espelhando o layout original de dados (inventory_data.json e
// user_data.json lado a lado).
type FileBackend struct {
	dir string
}

// NewFileBackend cria o backend de arquivos, garantindo que o diretório exista.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar o diretório de dados '%s': %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

// Read lê o conteúdo do arquivo da chave. Arquivo inexistente vira ErrNotFound.
func (b *FileBackend) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler o arquivo '%s': %w", key, err)
	}
	return data, nil
}

// Write grava o conteúdo da chave de forma atômica: escreve em um arquivo
// temporário no mesmo diretório e renomeia por cima do destino. Uma queda no
// meio da gravação nunca deixa um snapshot pela metade.
func (b *FileBackend) Write(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("falha ao criar o arquivo temporário para '%s': %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("falha ao gravar o arquivo temporário para '%s': %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("falha ao fechar o arquivo temporário para '%s': %w", key, err)
	}

	if err := os.Rename(tmpName, filepath.Join(b.dir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("falha ao substituir o arquivo '%s': %w", key, err)
	}
	return nil
}

// Close não tem recursos a liberar no backend de arquivos.
func (b *FileBackend) Close() error {
	return nil
}
