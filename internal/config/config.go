package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	EscrowDB       `yaml:"escrow_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	PaymentService `yaml:"payment-service"`
	FraudService   `yaml:"fraud-service"`
	FeePolicy      `yaml:"fee_policy"`
	Deadlines      `yaml:"deadlines"`
	DisputePolicy  `yaml:"dispute_policy"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type EscrowDB struct {
	Dsn            string `yaml:"dsn" env:"ESCROW_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host       string `yaml:"host" env:"KAFKA_HOST"`
	Port       string `yaml:"port" env:"KAFKA_PORT"`
	Username   string `yaml:"username" env:"KAFKA_USERNAME"`
	Password   string `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
	Topic      string `yaml:"topic" env-default:"notification-events"`
}

type PaymentService struct {
	Address string        `yaml:"address" env:"PAYMENT_SERVICE_ADDRESS"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type FraudService struct {
	Address string        `yaml:"address" env:"FRAUD_SERVICE_ADDRESS"`
	Timeout time.Duration `yaml:"timeout" env-default:"3s"`
}

// Fee rates are basis points; amounts are centavos.
type FeePolicy struct {
	SellerFeeBps int64 `yaml:"seller_fee_bps" env-default:"1000"`
	BuyerFeeBps  int64 `yaml:"buyer_fee_bps" env-default:"0"`
	MinimumFee   int64 `yaml:"minimum_fee" env-default:"500"`
}

type Deadlines struct {
	PaymentDeadline         time.Duration `yaml:"payment_deadline" env-default:"48h"`
	OfferTTL                time.Duration `yaml:"offer_ttl" env-default:"72h"`
	AutoReleaseBusinessDays int           `yaml:"auto_release_business_days" env-default:"7"`
}

type DisputePolicy struct {
	// SplitBuyerBps is the buyer's share of the agreed price when an
	// authority resolves a dispute with the SPLIT outcome.
	SplitBuyerBps int64 `yaml:"split_buyer_bps" env-default:"5000"`
}

func MustLoad() *EscrowConfig {
	configPath := os.Getenv("ESCROW_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
