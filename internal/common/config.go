package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Inventory InventoryConfig
	Server    ServerConfig
	OCR       OCRConfig
	Pipeline  PipelineConfig
	Log       LogConfig
}

// InventoryConfig selects and configures the inventory-identifier store
type InventoryConfig struct {
	Store            string // "file" | "sqlite" | "postgres" | "" (no store)
	Path             string // side-file or sqlite database path
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string
	RequestTimeout time.Duration
	MaxUploadBytes int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine        string // "tesseract" | "vision"
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	Scale         float64
	MinConfidence float64

	VisionCredentialsFile string
	VisionCredentialsJSON string
}

// PipelineConfig holds extraction defaults
type PipelineConfig struct {
	MinTextChars     int
	DefaultWarehouse string
	QueueWorkers     int
	ProcessTimeout   time.Duration
	WatchDir         string // daemon drop folder; empty disables watching
	OutputDir        string // where watch mode writes results
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // "json" | "text"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Inventory: InventoryConfig{
			Store:            getEnv("INVENTORY_STORE", ""),
			Path:             getEnv("INVENTORY_PATH", "inventory.json"),
			DSN:              getEnv("INVENTORY_DB_URL", ""),
			MaxConns:         getEnvAsInt32("INVENTORY_DB_MAX_CONNS", 5),
			MinConns:         getEnvAsInt32("INVENTORY_DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("INVENTORY_DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("INVENTORY_DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("INVENTORY_DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("INVENTORY_DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			RequestTimeout: getEnvAsDuration("GRPC_REQUEST_TIMEOUT", 5*time.Minute),
			MaxUploadBytes: getEnvAsInt("GRPC_MAX_UPLOAD_BYTES", 64<<20),
		},
		OCR: OCRConfig{
			Engine:        getEnv("OCR_ENGINE", "tesseract"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("TESSERACT_PSM", 6),
			Scale:         getEnvAsFloat64("OCR_RENDER_SCALE", 3.0),
			MinConfidence: getEnvAsFloat64("OCR_MIN_CONFIDENCE", 70),

			VisionCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			VisionCredentialsJSON: getEnv("GOOGLE_CREDENTIALS", ""),
		},
		Pipeline: PipelineConfig{
			MinTextChars:     getEnvAsInt("MIN_TEXT_CHARS", 50),
			DefaultWarehouse: getEnv("DEFAULT_WAREHOUSE", "MAIN"),
			QueueWorkers:     getEnvAsInt("QUEUE_WORKERS", 1),
			ProcessTimeout:   getEnvAsDuration("PROCESS_TIMEOUT", 10*time.Minute),
			WatchDir:         getEnv("WATCH_DIR", ""),
			OutputDir:        getEnv("OUTPUT_DIR", "out"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Inventory.Store) {
	case "", "file", "sqlite":
	case "postgres":
		if c.Inventory.DSN == "" {
			return NewAppError("CONFIG_ERROR", "INVENTORY_DB_URL is required for the postgres store", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "INVENTORY_STORE must be file, sqlite or postgres", ErrInvalidInput)
	}
	switch strings.ToLower(c.OCR.Engine) {
	case "tesseract", "vision":
	default:
		return NewAppError("CONFIG_ERROR", "OCR_ENGINE must be tesseract or vision", ErrInvalidInput)
	}
	if c.OCR.Scale < 1 {
		return NewAppError("CONFIG_ERROR", "OCR_RENDER_SCALE must be at least 1", ErrInvalidInput)
	}
	if c.Pipeline.QueueWorkers < 1 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS must be at least 1", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
