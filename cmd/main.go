package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"goinventory/config"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/storage"
	"goinventory/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"goinventory/internal/repository/inventoryrepo"
	"goinventory/internal/repository/userrepo"
	"goinventory/internal/service/inventoryservice"
	"goinventory/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoInventory...")
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado (ou houver erro de leitura),
		// avisamos, mas continuamos, pois as variáveis essenciais podem
		// estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (Backend, Chaves, Segurança, etc.)
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com o meio de persistência (Backend de snapshots)
	backend, err := newBackend(cfg)
	if err != nil {
		appLog.Fatal("Falha ao inicializar o backend de persistência.", err)
	}
	defer backend.Close()
	appLog.Info("Backend de persistência pronto.", map[string]interface{}{
		"backend": cfg.StorageBackend,
	})

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> CLI

	// A. Repositórios (Camada de Acesso a Dados)
	// Recebem o Backend de Infraestrutura e a chave do snapshot
	inventoryRepo := inventoryrepo.NewInventoryRepository(backend, cfg.InventoryKey)
	userRepo := userrepo.NewUserRepository(backend, cfg.UsersKey)
	appLog.Debug("Repositórios de snapshot inicializados.", nil)

	// B. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	appLog.Debug("Serviço de Tokens JWT inicializado.", nil)

	// C. Serviços (Camada de Lógica de Negócio)
	// Recebem os Repositórios (as interfaces SnapshotRepository/CredentialRepository)
	inventorySvc := inventoryservice.NewService(inventoryRepo, appLog, cfg.LowStockThreshold)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// 4. Carga dos snapshots e semeadura
	// Um snapshot corrompido aborta a inicialização: começar vazio por cima
	// de dados corrompidos apagaria o estado bom no próximo salvamento.
	ctx := context.Background()
	if err := inventorySvc.Load(ctx); err != nil {
		appLog.Fatal("Falha ao carregar o inventário. Corrija ou remova o snapshot antes de iniciar.", err)
	}
	if err := userSvc.Load(ctx); err != nil {
		appLog.Fatal("Falha ao carregar os usuários. Corrija ou remova o snapshot antes de iniciar.", err)
	}

	// Semeia o administrador padrão apenas quando não existe nenhum usuário.
	if _, err := userSvc.EnsureDefaultAdmin(ctx, cfg.SeedAdminUser, cfg.SeedAdminPassword); err != nil {
		appLog.Fatal("Falha ao semear o administrador padrão.", err)
	}

	// 5. Execução do colaborador de terminal
	cli := NewCLI(inventorySvc, userSvc, appLog, cfg.SeedAdminUser, cfg.SeedAdminPassword)
	if err := cli.Run(ctx); err != nil {
		appLog.Fatal("Sessão encerrada com erro.", err)
	}

	appLog.Info("GoInventory encerrado com sucesso.", nil)
}

// newBackend escolhe o meio de persistência conforme a configuração.
func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case "file":
		return storage.NewFileBackend(cfg.DataDir)
	case "redis":
		return storage.NewRedisBackend(cfg.RedisAddr)
	case "postgres":
		return storage.NewPostgresBackend(cfg.DatabaseURL)
	case "minio":
		return storage.NewMinioBackend(storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return nil, fmt.Errorf("backend de persistência desconhecido: '%s' (use: file, redis, postgres ou minio)", cfg.StorageBackend)
	}
}
