package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings resolved from defaults, an optional
// .env file and environment variables (in increasing order of precedence).
type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// SecretKey signs session and password-reset tokens. The default is a
	// development-only value and must be overridden in production.
	SecretKey []byte

	DefaultFromEmail mail.Address
	FrontendBaseURL  string
	SendgridAPIKey   string
	GeminiAPIKey     string
	RollbarToken     string

	Server struct {
		Host                      string
		Port                      int
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		PasswordResetTimeoutDelta time.Duration
		// AllowUnverifiedPasswordReset restores the legacy behavior of
		// accepting a password reset without a reset token. Development only.
		AllowUnverifiedPasswordReset bool
	}

	Database struct {
		Engine     string
		Host       string
		Port       int
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	Redis struct {
		Addr     string
		QueueKey string
	}

	Summary struct {
		Model   string
		Timeout time.Duration
	}
}

func (c *Config) IsProd() bool { return c.Env == "PROD" }

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) DatabaseAddress() string {
	return fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
}

// NewConfig loads the configuration for the current ENV (DEV, TEST, QA, PROD).
func NewConfig(build string) *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "EduOS")
	v.SetDefault("secretKey", "wq3^bv8e)ro&x1y$=+9t7#ndz(h5!mc24u0_gk6spja%lfi-dev")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("shutdownTimeout", 20*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("passwordResetTimeoutDelta", 1*time.Hour)
	v.SetDefault("allowUnverifiedPasswordReset", false)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbName", "eduos")
	v.SetDefault("dbUser", "eduos")
	v.SetDefault("dbPassword", "eduos")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisQueueKey", "eduos:activity")
	v.SetDefault("summaryModel", "gemini-pro")
	v.SetDefault("summaryTimeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		AppName:          v.GetString("appName"),
		Build:            build,
		SecretKey:        []byte(v.GetString("secretKey")),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		GeminiAPIKey:     v.GetString("geminiApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetInt("serverPort")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.PasswordResetTimeoutDelta = v.GetDuration("passwordResetTimeoutDelta")
	conf.Server.AllowUnverifiedPasswordReset = v.GetBool("allowUnverifiedPasswordReset")
	conf.Database.Engine = v.GetString("dbEngine")
	conf.Database.Host = v.GetString("dbHost")
	conf.Database.Port = v.GetInt("dbPort")
	conf.Database.Name = v.GetString("dbName")
	conf.Database.User = v.GetString("dbUser")
	conf.Database.Password = v.GetString("dbPassword")
	conf.Database.DisableTLS = v.GetBool("dbDisableTLS")
	conf.Redis.Addr = v.GetString("redisAddr")
	conf.Redis.QueueKey = v.GetString("redisQueueKey")
	conf.Summary.Model = v.GetString("summaryModel")
	conf.Summary.Timeout = v.GetDuration("summaryTimeout")
	return conf
}
