package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-events/internal/adapters/database/redis"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
	"github.com/Badsnus/campus-events/pkg/logger"
	"github.com/Badsnus/campus-events/pkg/smtp"
	"github.com/Badsnus/campus-events/pkg/token"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type HTTP struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Telegram struct {
	Enabled bool
	Token   string

	LogToChannel    bool
	LogChannelID    int64
	LogChannelLevel zapcore.Level
}

type Config struct {
	Debug bool

	Database     *gorm.DB
	Redis        *redis.Client
	Mailer       *smtp.Client
	Tokens       *token.Manager
	EmailDomains []string
	QRLogoPath   string

	HTTP     HTTP
	Telegram Telegram
}

func initConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CAMPUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("settings.timezone", "UTC")
	viper.SetDefault("service.http.port", 8080)
	viper.SetDefault("service.http.read-timeout", 15*time.Second)
	viper.SetDefault("service.http.write-timeout", 30*time.Second)
	viper.SetDefault("service.database.driver", "postgres")
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.smtp.port", 587)
	viper.SetDefault("auth.token-ttl", 24*time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
}

// Get reads the configuration and connects every backing service. It panics
// when a service is unreachable or a required value is missing.
func Get() *Config {
	initConfig()

	if err := location.Load(viper.GetString("settings.timezone")); err != nil {
		panic(err)
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	database, err := postgres.Open(postgres.Options{
		Driver: viper.GetString("service.database.driver"),
		DSN:    databaseDSN(),
		Debug:  viper.GetBool("settings.debug"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	}
	logger.Log.Info("Successfully connected to the database")

	redisClient, err := redis.New(redis.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetString("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	}
	logger.Log.Info("Successfully connected to redis")

	secret := viper.GetString("auth.jwt-secret")
	if secret == "" {
		logger.Log.Panic("auth.jwt-secret is required")
	}

	telegramToken := viper.GetString("telegram.token")
	telegramEnabled := viper.GetBool("telegram.enabled")
	if telegramEnabled && telegramToken == "" {
		logger.Log.Panic("telegram.token is required when telegram is enabled")
	}

	return &Config{
		Debug:        viper.GetBool("settings.debug"),
		Database:     database,
		Redis:        redisClient,
		Mailer:       mailer(),
		Tokens:       token.NewManager(secret, viper.GetDuration("auth.token-ttl")),
		EmailDomains: viper.GetStringSlice("auth.email-domains"),
		QRLogoPath:   viper.GetString("qr.logo-path"),
		HTTP: HTTP{
			Addr:         fmt.Sprintf(":%d", viper.GetInt("service.http.port")),
			ReadTimeout:  viper.GetDuration("service.http.read-timeout"),
			WriteTimeout: viper.GetDuration("service.http.write-timeout"),
		},
		Telegram: Telegram{
			Enabled:         telegramEnabled,
			Token:           telegramToken,
			LogToChannel:    viper.GetBool("settings.logging.log-to-channel"),
			LogChannelID:    viper.GetInt64("settings.logging.channel-id"),
			LogChannelLevel: zapcore.Level(viper.GetInt("settings.logging.channel-log-level")),
		},
	}
}

func databaseDSN() string {
	if dsn := viper.GetString("service.database.dsn"); dsn != "" {
		return dsn
	}
	if viper.GetString("service.database.driver") == "sqlite" {
		return "campus-events.db"
	}
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=UTC",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
	)
}

// mailer returns nil when no SMTP host is configured, emails are then skipped.
func mailer() *smtp.Client {
	host := viper.GetString("service.smtp.host")
	if host == "" {
		logger.Log.Warn("SMTP host is not set, emails are disabled")
		return nil
	}

	dialer := gomail.NewDialer(
		host,
		viper.GetInt("service.smtp.port"),
		viper.GetString("service.smtp.username"),
		viper.GetString("service.smtp.password"),
	)
	return smtp.NewClient(dialer, viper.GetString("service.smtp.from"), viper.GetString("service.smtp.domain"))
}
