package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions agrupa os parâmetros de conexão com o MinIO/S3.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioBackend persiste snapshots como objetos JSON em um bucket MinIO/S3,
// uma chave por objeto.
type MinioBackend struct {
	client *minio.Client
	bucket string
}

// NewMinioBackend cria o backend MinIO e garante que o bucket exista.
func NewMinioBackend(opts MinioOptions) (*MinioBackend, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, errors.New("o endpoint do MinIO é obrigatório")
	}
	if strings.TrimSpace(opts.AccessKey) == "" || strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("as credenciais do MinIO são obrigatórias")
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("o bucket do MinIO é obrigatório")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar o cliente MinIO: %w", err)
	}

	backend := &MinioBackend{client: client, bucket: opts.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := backend.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("falha ao garantir o bucket '%s': %w", opts.Bucket, err)
	}

	return backend, nil
}

// ensureBucket garante que o bucket configurado exista.
func (b *MinioBackend) ensureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{})
}

// Read recupera o snapshot associado a uma chave. O SDK só materializa o erro
// na leitura do objeto, então a tradução para ErrNotFound acontece ali.
func (b *MinioBackend) Read(ctx context.Context, key string) ([]byte, error) {
	object, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir o objeto '%s': %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler o objeto '%s': %w", key, err)
	}
	return data, nil
}

// Write grava o snapshot de uma chave como objeto JSON.
func (b *MinioBackend) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("falha ao gravar o objeto '%s': %w", key, err)
	}
	return nil
}

// Close não tem recursos a liberar: o cliente MinIO usa conexões HTTP por chamada.
func (b *MinioBackend) Close() error {
	return nil
}
