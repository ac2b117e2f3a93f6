package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat string   `env:"LOG_FORMAT" envDefault:"text"`
	GRPC      GRPC     `envPrefix:"GRPC_"`
	Database  Database `envPrefix:"DATABASE_"`
	JWT       JWT      `envPrefix:"JWT_"`
	Storage   Storage  `envPrefix:"MINIO_"`
	Chain     Chain    `envPrefix:"CHAIN_"`
	Recovery  Recovery `envPrefix:"RECOVERY_"`
}

// GRPC contains gRPC server parameters.
type GRPC struct {
	Port               string `env:"PORT" envDefault:"50051"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. An empty DSN keeps all
// state in memory.
type Database struct {
	DSN string `env:"DSN"`
}

// JWT contains operator token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Storage contains object storage parameters for the recovery archive.
// An empty endpoint disables archiving.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"recoveryd-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"recoveryd-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"recoveryd-archive"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Chain contains ledger parameters.
type Chain struct {
	ID            string        `env:"ID" envDefault:"recoveryd-dev"`
	BlockInterval time.Duration `env:"BLOCK_INTERVAL" envDefault:"500ms"`
	GenesisFile   string        `env:"GENESIS_FILE"`
	GenesisTime   time.Time     `env:"GENESIS_TIME"`
	MaxAuthDepth  int           `env:"MAX_AUTH_DEPTH" envDefault:"2"`
}

// Recovery contains account recovery parameters.
type Recovery struct {
	Delay time.Duration `env:"DELAY" envDefault:"720h"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Recovery.Delay <= 0 {
		return nil, fmt.Errorf("recovery delay must be positive, got %s", cfg.Recovery.Delay)
	}
	if cfg.Chain.BlockInterval <= 0 {
		return nil, fmt.Errorf("block interval must be positive, got %s", cfg.Chain.BlockInterval)
	}

	return &cfg, nil
}
