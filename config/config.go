package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações do aplicativo GoInventory.
// Todos os campos são definidos com base nos requisitos do projeto
// (Persistência, Segurança, Semeadura, Robustez).
type Config struct {
	// Geral
	Environment string
	LogLevel    string

	// Persistência de snapshots
	// StorageBackend escolhe o meio: "file" | "redis" | "postgres" | "minio"
	StorageBackend string
	DataDir        string
	InventoryKey   string
	UsersKey       string

	// Banco de Dados (PostgreSQL), usado quando StorageBackend = "postgres"
	DatabaseURL string

	// Redis, usado quando StorageBackend = "redis"
	RedisAddr string

	// MinIO, usado quando StorageBackend = "minio"
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Inventário
	LowStockThreshold int

	// Semeadura do administrador padrão (apenas quando não há usuários)
	SeedAdminUser     string
	SeedAdminPassword string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Persistência de snapshots
		// As chaves padrão reproduzem o layout de dados original
		// (inventory_data.json e user_data.json lado a lado).
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		DataDir:        getEnv("DATA_DIR", "."),
		InventoryKey:   getEnv("INVENTORY_KEY", "inventory_data.json"),
		UsersKey:       getEnv("USERS_KEY", "user_data.json"),

		// 3. Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// 4. MinIO
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "goinventory"),
		MinioUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		// 5. Segurança (JWT)
		// mustGetEnv garante que a aplicação não inicie sem segredo de assinatura
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute, // 60 min padrão

		// 6. Inventário
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 5), // 5 unidades padrão

		// 7. Semeadura do administrador padrão
		SeedAdminUser:     getEnv("SEED_ADMIN_USER", "admin"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}

	// 8. Banco de Dados (PostgreSQL)
	// A URL só é obrigatória quando o backend escolhido é o PostgreSQL.
	if cfg.StorageBackend == "postgres" {
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	} else {
		cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv lê uma variável de ambiente booleana ("true"/"false").
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um booleano válido. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
