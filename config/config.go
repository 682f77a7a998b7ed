package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort     string
	MetricsPort     string
	Environment     string
	LogLevel        string
	BaseURL         string
	MongoDBConfig   MongoDBConfig
	JWTConfig       JWTConfig
	KafkaConfig     KafkaConfig
	TracingConfig   TracingConfig
	PaymentConfig   PaymentConfig
	SMTPConfig      SMTPConfig
	StorageConfig   StorageConfig
	RateLimitConfig RateLimitConfig
}

type MongoDBConfig struct {
	URI             string
	DBName          string
	UseTransactions bool
}

type JWTConfig struct {
	JWTSecret string
	ExpiresIn time.Duration
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
	GroupID       string
}

type TracingConfig struct {
	CollectorHost string
}

// PaymentConfig selects the hosted checkout provider. Provider is "stripe" or "midtrans".
type PaymentConfig struct {
	Provider            string
	Currency            string
	StripeSecretKey     string
	StripeWebhookSecret string
	MidtransServerKey   string
	MidtransEnvironment string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig selects where uploaded images live. Driver is "local" or "s3".
type StorageConfig struct {
	Driver          string
	UploadDir       string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8000"),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		BaseURL:     os.Getenv("BASE_URL"),
		MongoDBConfig: MongoDBConfig{
			URI:             getEnv("DB_URI", "mongodb://localhost:27017"),
			DBName:          getEnv("DB_NAME", "e_commerce"),
			UseTransactions: getEnvBool("DB_USE_TRANSACTIONS", true),
		},
		JWTConfig: JWTConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			ExpiresIn: getEnvDuration("JWT_EXPIRE_TIME", 90*24*time.Hour),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "orders"),
			GroupID:       getEnv("BROKER_GROUP_ID", "e-commerce-notifier"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		PaymentConfig: PaymentConfig{
			Provider:            getEnv("PAYMENT_PROVIDER", "stripe"),
			Currency:            getEnv("PAYMENT_CURRENCY", "egp"),
			StripeSecretKey:     os.Getenv("STRIPE_SECRET"),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			MidtransServerKey:   os.Getenv("MIDTRANS_SERVER_KEY"),
			MidtransEnvironment: getEnv("MIDTRANS_ENVIRONMENT", "sandbox"),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     getEnvInt("EMAIL_PORT", 465),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			From:     getEnv("EMAIL_FROM", "Shoppay App"),
		},
		StorageConfig: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "local"),
			UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
			Bucket:          os.Getenv("STORAGE_BUCKET"),
			Region:          getEnv("STORAGE_REGION", "auto"),
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			PublicURL:       os.Getenv("STORAGE_PUBLIC_URL"),
		},
		RateLimitConfig: RateLimitConfig{
			Max:    getEnvInt("RATE_LIMIT_MAX", 100),
			Window: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
