package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/logger"
)

// Config holds every setting for the identity server.
type Config struct {
	Service struct {
		Name            string
		Version         string
		BaseURL         string
		DefaultLanguage string
	}

	Server struct {
		HTTP struct {
			Port    string
			Timeout int
			Debug   bool
		}
		GRPC struct {
			Port    string
			Timeout int
		}
	}

	MongoDB struct {
		URI      string
		Database string
		Timeout  int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		// Channel is the base channel text-message jobs are published to.
		Channel string
	}

	JWT struct {
		Secret          string
		AccessTTL       time.Duration
		RefreshTTL      time.Duration
		ChallengeTTL    time.Duration
		VerificationTTL time.Duration
	}

	Auth struct {
		LockoutThreshold  int
		HashCost          int
		PasswordMinLength int
		TFACodeTTL        time.Duration
		// SecretKey keys the HMAC digest and the phone-number cipher.
		SecretKey string
	}

	Email struct {
		SenderEmail string
		SMTPHost    string
		SMTPPort    int
		SMTPUser    string
		SMTPPass    string
	}

	Log struct {
		Level  string
		Format string
		Output string
	}

	Logger *zap.Logger
}

// Load reads configs/<env>.yaml plus environment overrides and builds the
// logger. The environment is taken from APP_ENV, defaulting to dev.
func Load() (*Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetConfigName(env)
	v.AddConfigPath("configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("IDENTITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults plus env cover local runs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Service.Name = v.GetString("service.name")
	cfg.Service.Version = v.GetString("service.version")
	cfg.Service.BaseURL = v.GetString("service.base_url")
	cfg.Service.DefaultLanguage = v.GetString("service.default_language")

	cfg.Server.HTTP.Port = v.GetString("server.http.port")
	cfg.Server.HTTP.Timeout = v.GetInt("server.http.timeout")
	cfg.Server.HTTP.Debug = v.GetBool("server.http.debug")
	cfg.Server.GRPC.Port = v.GetString("server.grpc.port")
	cfg.Server.GRPC.Timeout = v.GetInt("server.grpc.timeout")

	cfg.MongoDB.URI = v.GetString("mongodb.uri")
	cfg.MongoDB.Database = v.GetString("mongodb.database")
	cfg.MongoDB.Timeout = v.GetInt("mongodb.timeout")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.Channel = v.GetString("redis.channel")

	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.AccessTTL = time.Duration(v.GetInt("jwt.access_token_expiry_min")) * time.Minute
	cfg.JWT.RefreshTTL = time.Duration(v.GetInt("jwt.refresh_token_expiry_min")) * time.Minute
	cfg.JWT.ChallengeTTL = time.Duration(v.GetInt("jwt.challenge_token_expiry_min")) * time.Minute
	cfg.JWT.VerificationTTL = time.Duration(v.GetInt("jwt.verification_token_expiry_min")) * time.Minute

	cfg.Auth.LockoutThreshold = v.GetInt("auth.lockout_threshold")
	cfg.Auth.HashCost = v.GetInt("auth.hash_cost")
	cfg.Auth.PasswordMinLength = v.GetInt("auth.password_min_length")
	cfg.Auth.TFACodeTTL = time.Duration(v.GetInt("auth.tfa_code_ttl_min")) * time.Minute
	cfg.Auth.SecretKey = v.GetString("auth.secret_key")

	cfg.Email.SenderEmail = v.GetString("email.sender_email")
	cfg.Email.SMTPHost = v.GetString("email.smtp_host")
	cfg.Email.SMTPPort = v.GetInt("email.smtp_port")
	cfg.Email.SMTPUser = v.GetString("email.smtp_user")
	cfg.Email.SMTPPass = v.GetString("email.smtp_pass")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Log.Output = v.GetString("log.output")

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	if cfg.Auth.SecretKey == "" {
		return nil, fmt.Errorf("auth.secret_key is required")
	}

	loggerConfig := logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Server.HTTP.Debug,
	}

	zapLogger, err := logger.NewZapLogger(loggerConfig)
	if err != nil {
		return nil, err
	}
	cfg.Logger = zapLogger

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "identity-server")
	v.SetDefault("service.version", "0.1.0")
	v.SetDefault("service.base_url", "http://localhost:8080")
	v.SetDefault("service.default_language", "en")

	v.SetDefault("server.http.port", "8080")
	v.SetDefault("server.http.timeout", 30)
	v.SetDefault("server.http.debug", false)
	v.SetDefault("server.grpc.port", "9090")
	v.SetDefault("server.grpc.timeout", 30)

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "identity")
	v.SetDefault("mongodb.timeout", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "notifications")

	v.SetDefault("jwt.access_token_expiry_min", 30)
	v.SetDefault("jwt.refresh_token_expiry_min", 43200) // 30 days
	v.SetDefault("jwt.challenge_token_expiry_min", 10)
	v.SetDefault("jwt.verification_token_expiry_min", 1440) // 24 hours

	v.SetDefault("auth.lockout_threshold", 15)
	v.SetDefault("auth.hash_cost", 10)
	v.SetDefault("auth.password_min_length", 8)
	v.SetDefault("auth.tfa_code_ttl_min", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}
