package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		Environment        string   `mapstructure:"environment"`
		PortalBaseURL      string   `mapstructure:"portal_base_url"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Admin struct {
		Username     string `mapstructure:"username"`
		PasswordHash string `mapstructure:"password_hash"`
		Email        string `mapstructure:"email"`
	} `mapstructure:"admin"`

	Square struct {
		AccessToken         string `mapstructure:"access_token"`
		WebhookSignatureKey string `mapstructure:"webhook_signature_key"`
		WebhookURL          string `mapstructure:"webhook_url"`
	} `mapstructure:"square"`

	Resend struct {
		APIKey    string `mapstructure:"api_key"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"resend"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	R2 struct {
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
	} `mapstructure:"r2"`
}

// IsProduction controls strict behaviors like webhook signature enforcement.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Sensible defaults so the binary works without a config file
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.portal_base_url", "http://localhost:8080")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "engrave-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "engrave_db")
	v.SetDefault("r2.region", "auto")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Server.Environment = env
	}
	if base := os.Getenv("PORTAL_BASE_URL"); base != "" {
		cfg.Server.PortalBaseURL = base
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Admin.Email = v
	}

	if v := os.Getenv("SQUARE_ACCESS_TOKEN"); v != "" {
		cfg.Square.AccessToken = v
	}
	if v := os.Getenv("SQUARE_WEBHOOK_SIGNATURE_KEY"); v != "" {
		cfg.Square.WebhookSignatureKey = v
	}
	if v := os.Getenv("SQUARE_WEBHOOK_URL"); v != "" {
		cfg.Square.WebhookURL = v
	}

	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Resend.APIKey = v
	}
	if v := os.Getenv("RESEND_FROM_EMAIL"); v != "" {
		cfg.Resend.FromEmail = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.R2.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.R2.SecretKey = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.R2.Endpoint = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.R2.Bucket = v
	}

	return &cfg
}
