package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Sim      SimConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DataDir     string
	ModelDir    string
	RepoBackend string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SimConfig holds the simulation policy knobs. Defaults reproduce the
// reference policy: 212-day horizon, bottom-line threshold 20,
// standard orders of 50 units, 7-day order spacing.
type SimConfig struct {
	HorizonStart      string
	HorizonEnd        string
	InitialSales      int
	DefaultOnHand     int
	DefaultStartDate  string
	ReorderThreshold  int
	OrderQuantity     int
	OrderSpacingDays  int
	LeadTimeMin       int
	LeadTimeMax       int
	FallbackLeadMin   int
	FallbackLeadMax   int
	SalesModelFile    string
	LeadTimeModelFile string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stocksim")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("APP_MODEL_DIR", "./data/models")
		viper.SetDefault("APP_REPO_BACKEND", "csv")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "stocksim-artifacts")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("SIM_HORIZON_START", "2025-01-01")
		viper.SetDefault("SIM_HORIZON_END", "2025-07-31")
		viper.SetDefault("SIM_INITIAL_SALES", 10)
		viper.SetDefault("SIM_DEFAULT_ON_HAND", 100)
		viper.SetDefault("SIM_DEFAULT_START_DATE", "2024-12-31")
		viper.SetDefault("SIM_REORDER_THRESHOLD", 20)
		viper.SetDefault("SIM_ORDER_QUANTITY", 50)
		viper.SetDefault("SIM_ORDER_SPACING_DAYS", 7)
		viper.SetDefault("SIM_LEAD_TIME_MIN", 3)
		viper.SetDefault("SIM_LEAD_TIME_MAX", 14)
		viper.SetDefault("SIM_FALLBACK_LEAD_MIN", 3)
		viper.SetDefault("SIM_FALLBACK_LEAD_MAX", 10)
		viper.SetDefault("SIM_SALES_MODEL_FILE", "sales_model.json")
		viper.SetDefault("SIM_LEADTIME_MODEL_FILE", "leadtime_model.json")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the artifact and model directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_MODEL_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				DataDir:     viper.GetString("APP_DATA_DIR"),
				ModelDir:    viper.GetString("APP_MODEL_DIR"),
				RepoBackend: viper.GetString("APP_REPO_BACKEND"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Sim: SimConfig{
				HorizonStart:      viper.GetString("SIM_HORIZON_START"),
				HorizonEnd:        viper.GetString("SIM_HORIZON_END"),
				InitialSales:      viper.GetInt("SIM_INITIAL_SALES"),
				DefaultOnHand:     viper.GetInt("SIM_DEFAULT_ON_HAND"),
				DefaultStartDate:  viper.GetString("SIM_DEFAULT_START_DATE"),
				ReorderThreshold:  viper.GetInt("SIM_REORDER_THRESHOLD"),
				OrderQuantity:     viper.GetInt("SIM_ORDER_QUANTITY"),
				OrderSpacingDays:  viper.GetInt("SIM_ORDER_SPACING_DAYS"),
				LeadTimeMin:       viper.GetInt("SIM_LEAD_TIME_MIN"),
				LeadTimeMax:       viper.GetInt("SIM_LEAD_TIME_MAX"),
				FallbackLeadMin:   viper.GetInt("SIM_FALLBACK_LEAD_MIN"),
				FallbackLeadMax:   viper.GetInt("SIM_FALLBACK_LEAD_MAX"),
				SalesModelFile:    viper.GetString("SIM_SALES_MODEL_FILE"),
				LeadTimeModelFile: viper.GetString("SIM_LEADTIME_MODEL_FILE"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
