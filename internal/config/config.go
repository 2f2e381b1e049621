package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ChainConfig holds the train contract and signer configuration
type ChainConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	ContractAddress string        `mapstructure:"contract_address"`
	PrivateKey      string        `mapstructure:"private_key"`
	ChainID         int64         `mapstructure:"chain_id"`
	ReceiptTimeout  time.Duration `mapstructure:"receipt_timeout"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// NeynarConfig holds the social-graph API configuration
type NeynarConfig struct {
	APIURL     string `mapstructure:"api_url"`
	APIKey     string `mapstructure:"api_key"`
	SignerUUID string `mapstructure:"signer_uuid"`
}

// PinataConfig holds the IPFS pinning service configuration
type PinataConfig struct {
	APIURL string `mapstructure:"api_url"`
	JWT    string `mapstructure:"jwt"`
}

// ArtifactsConfig holds the artifact generator configuration
type ArtifactsConfig struct {
	GeneratorURL string `mapstructure:"generator_url"`
}

// OrchestratorConfig holds pipeline tuning
type OrchestratorConfig struct {
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
	StagingTTL    time.Duration `mapstructure:"staging_ttl"`
	GenerationTTL time.Duration `mapstructure:"generation_ttl"`
}

// RateLimiterConfig holds outbound API rate limiter configuration
type RateLimiterConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
	MaxWorkers        int           `mapstructure:"max_workers"`
	MaxQueueSize      int           `mapstructure:"max_queue_size"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// StagingSweeperConfig holds configuration for the staging sweeper
type StagingSweeperConfig struct {
	StuckThreshold time.Duration `mapstructure:"stuck_threshold"`
	Worker         WorkerConfig  `mapstructure:"worker"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig   `mapstructure:",squash"`
	Server       ServerConfig       `mapstructure:"server"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Chain        ChainConfig        `mapstructure:"chain"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Neynar       NeynarConfig       `mapstructure:"neynar"`
	Pinata       PinataConfig       `mapstructure:"pinata"`
	Artifacts    ArtifactsConfig    `mapstructure:"artifacts"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	RateLimiter  RateLimiterConfig  `mapstructure:"rate_limiter"`
	Auth         AuthConfig         `mapstructure:"auth"`
}

// SweeperConfig holds configuration for the sweeper program
type SweeperConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Orchestrator   OrchestratorConfig   `mapstructure:"orchestrator"`
	StagingSweeper StagingSweeperConfig `mapstructure:"staging_sweeper"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("neynar.api_url", "https://api.neynar.com")
	v.SetDefault("pinata.api_url", "https://api.pinata.cloud")
	v.SetDefault("rate_limiter.requests_per_second", 5)
	v.SetDefault("rate_limiter.burst", 2)
	v.SetDefault("rate_limiter.max_queue_time", "30s")
	v.SetDefault("rate_limiter.max_workers", 10)
	v.SetDefault("rate_limiter.max_queue_size", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadSweeperConfig loads configuration for the sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	// Set defaults
	setCommonDefaults(v)
	v.SetDefault("staging_sweeper.stuck_threshold", "10m")
	v.SetDefault("staging_sweeper.worker.pool_size", 4)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config SweeperConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setCommonDefaults applies defaults shared by every program
func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("chain.receipt_timeout", "2m")
	v.SetDefault("nats.stream_name", "TRAIN_EVENTS")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("orchestrator.lock_ttl", "5m")
	v.SetDefault("orchestrator.staging_ttl", "24h")
	v.SetDefault("orchestrator.generation_ttl", "72h")
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/sweeper/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("CONDUCTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// Chain
		"chain.rpc_url",
		"chain.contract_address",
		"chain.private_key",
		"chain.chain_id",
		"chain.receipt_timeout",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Neynar
		"neynar.api_url",
		"neynar.api_key",
		"neynar.signer_uuid",
		// Pinata
		"pinata.api_url",
		"pinata.jwt",
		// Artifacts
		"artifacts.generator_url",
		// Orchestrator
		"orchestrator.lock_ttl",
		"orchestrator.staging_ttl",
		"orchestrator.generation_ttl",
		// Rate limiter
		"rate_limiter.requests_per_second",
		"rate_limiter.burst",
		"rate_limiter.max_queue_time",
		"rate_limiter.max_workers",
		"rate_limiter.max_queue_size",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Staging sweeper
		"staging_sweeper.stuck_threshold",
		"staging_sweeper.worker.pool_size",
		"staging_sweeper.worker.queue_size",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
