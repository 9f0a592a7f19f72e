package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	// Usamos o driver pq para PostgreSQL
	_ "github.com/lib/pq"
)

// PostgresBackend persiste snapshots em uma tabela chave/valor no PostgreSQL.
// Cada chave guarda o snapshot completo; a escrita é um upsert, então a troca
// do snapshot é atômica do ponto de vista de quem lê.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend inicializa o pool de conexões com o PostgreSQL e garante
// que a tabela de snapshots exista.
func NewPostgresBackend(dataSourceName string) (*PostgresBackend, error) {

	// 1. Abrir a Conexão (sem ainda usar o pool)
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	// 2. Testar a Conexão Imediatamente
	// Garante que as credenciais e o servidor estão corretos
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// 3. Configuração do Connection Pool
	// MaxOpenConns: número máximo de conexões abertas com o banco de dados.
	db.SetMaxOpenConns(25)
	// MaxIdleConns: número máximo de conexões ociosas no pool.
	db.SetMaxIdleConns(10)
	// ConnMaxLifetime: tempo máximo de vida de uma conexão.
	db.SetConnMaxLifetime(5 * time.Minute)
	// ConnMaxIdleTime: tempo máximo que uma conexão pode ficar ociosa.
	db.SetConnMaxIdleTime(2 * time.Minute)

	// 4. Garantir a tabela de snapshots
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const createTable = `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao criar a tabela de snapshots: %w", err)
	}

	log.Println("✅ Pool de Conexões PostgreSQL configurado e pronto.")

	return &PostgresBackend{db: db}, nil
}

// Read recupera o snapshot associado a uma chave.
func (b *PostgresBackend) Read(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT data FROM snapshots WHERE key = $1`

	var data []byte
	err := b.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o snapshot '%s': %w", key, err)
	}
	return data, nil
}

// Write grava o snapshot de uma chave via upsert.
func (b *PostgresBackend) Write(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()`

	if _, err := b.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("falha ao gravar o snapshot '%s': %w", key, err)
	}
	return nil
}

// Close encerra o pool de conexões.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
