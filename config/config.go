package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  int
	CORSOrigins []string
	Database    DatabaseConfig
	Auth        AuthConfig
	Upload      UploadConfig
	Classifier  ClassifierConfig
	Broker      BrokerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTLHours  int
	MinPasswordLen int
}

// UploadConfig selects and configures the image storage backend.
// Backend is one of "local", "minio", "gcs".
type UploadConfig struct {
	Backend  string
	LocalDir string
	Minio    MinioConfig
	GCS      GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

// ClassifierConfig selects and configures the disease classifier backend.
// Backend is one of "stub", "http".
type ClassifierConfig struct {
	Backend        string
	URL            string
	TimeoutSeconds int
	ModelVersion   string
}

// BrokerConfig selects the scan-event broker. Backend is one of
// "none", "rabbitmq", "pubsub".
type BrokerConfig struct {
	Backend   string
	URL       string
	ProjectID string
	Topic     string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "riceguard"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "riceguard_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		Database:    dbConfig,
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTLHours:  getEnvInt("TOKEN_TTL_HOURS", 24),
			MinPasswordLen: getEnvInt("MIN_PASSWORD_LEN", 6),
		},
		Upload: UploadConfig{
			Backend:  getEnv("UPLOAD_BACKEND", "local"),
			LocalDir: getEnv("UPLOAD_DIR", "uploads"),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "riceguard-uploads"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		Classifier: ClassifierConfig{
			Backend:        getEnv("CLASSIFIER_BACKEND", "stub"),
			URL:            getEnv("CLASSIFIER_URL", ""),
			TimeoutSeconds: getEnvInt("CLASSIFIER_TIMEOUT_SECONDS", 30),
			ModelVersion:   getEnv("CLASSIFIER_MODEL_VERSION", "1.0"),
		},
		Broker: BrokerConfig{
			Backend:   getEnv("BROKER_BACKEND", "none"),
			URL:       getEnv("BROKER_URL", ""),
			ProjectID: getEnv("BROKER_PROJECT_ID", ""),
			Topic:     getEnv("BROKER_TOPIC", "scans.created"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(valueStr, "true") || valueStr == "1"
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
