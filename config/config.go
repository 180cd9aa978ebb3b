package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment at startup
type Config struct {
	MongoURI         string
	DBName           string
	TokenSecret      string
	StripeSecretKey  string
	Port             string
	Env              string
	PostmarkAPIToken string
	EmailSender      string
	RabbitMQURL      string
	CORSOrigins      []string

	// EnvFileLoaded is false when no .env file was found
	EnvFileLoaded bool
}

// Load reads .env (if present) and the environment. Missing required values are reported together.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	var missing []string
	require := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}

	uri := require("LOCAL_URI")
	cfg := &Config{
		DBName:           require("DB_NAME"),
		TokenSecret:      require("TOKEN_SECRET"),
		StripeSecretKey:  require("STRIPE_SK"),
		Port:             getEnv("PORT", "5000"),
		Env:              getEnv("ENV", "local"),
		PostmarkAPIToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		EnvFileLoaded:    loaded,
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg.MongoURI = strings.NewReplacer(
		"<username>", os.Getenv("DB_USER"),
		"<password>", os.Getenv("DB_PASS"),
	).Replace(uri)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MailEnabled reports whether booking mails can be sent
func (c *Config) MailEnabled() bool {
	return c.PostmarkAPIToken != "" && c.EmailSender != ""
}

// Validate checks values that are present but unusable
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.MongoURI, "mongodb://") && !strings.HasPrefix(c.MongoURI, "mongodb+srv://") {
		return errors.New("LOCAL_URI must be a mongodb:// or mongodb+srv:// connection string")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
