package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

// Load parses the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := LoadAI()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Database: loadDatabaseConfig(),
		Auth:     auth,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig selects the persistence backend. Postgres when DATABASE_URL
// is set, otherwise a local SQLite file.
type DatabaseConfig struct {
	PostgresURL string
	SQLitePath  string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		PostgresURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "serenity.db"),
	}
}

// AuthConfig holds token-signing settings.
type AuthConfig struct {
	JWTSecret    string
	TokenTTLDays int
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	ttl := 7
	if override, err := parseOptionalIntEnv("JWT_TTL_DAYS"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("JWT_TTL_DAYS must be >= 1")
		}
		ttl = *override
	}

	return AuthConfig{JWTSecret: secret, TokenTTLDays: ttl}, nil
}

// Provider names accepted in AI_PROVIDER.
const (
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// AIConfig describes the model gateway. Exactly one provider is active at a
// time; with no credentials configured the service runs on the local fallback.
type AIConfig struct {
	Provider       string
	Ark            ArkConfig
	OpenAI         OpenAIConfig
	TimeoutSeconds int
}

// Resolve picks the effective provider: the explicit AI_PROVIDER when set,
// otherwise the first provider with usable credentials.
func (c AIConfig) Resolve() string {
	if c.Provider != "" {
		return c.Provider
	}
	if c.Ark.Enabled() {
		return ProviderArk
	}
	if c.OpenAI.Enabled() {
		return ProviderOpenAI
	}
	return ProviderLocal
}

// LoadAI parses only the gateway configuration. The Lambda packaging of the
// chat proxy uses this without the rest of Load.
func LoadAI() (AIConfig, error) {
	arkCfg, err := loadArkConfig()
	if err != nil {
		return AIConfig{}, err
	}

	openAICfg, err := loadOpenAIConfig()
	if err != nil {
		return AIConfig{}, err
	}

	timeout := 30
	if override, err := parseOptionalIntEnv("AI_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("AI_TIMEOUT_SECONDS must be >= 1")
		}
		timeout = *override
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER")))
	switch provider {
	case "", ProviderArk, ProviderOpenAI, ProviderLocal:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value: %q", provider)
	}

	return AIConfig{
		Provider:       provider,
		Ark:            arkCfg,
		OpenAI:         openAICfg,
		TimeoutSeconds: timeout,
	}, nil
}

// ArkConfig configures the Volcengine Ark model backend.
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required Ark credentials are present.
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an eino chat model from this configuration.
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadArkConfig() (ArkConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return ArkConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return ArkConfig{}, err
	}

	return ArkConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// OpenAIConfig configures any OpenAI-compatible completion gateway.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
}

// Enabled reports whether the gateway credentials are present.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func loadOpenAIConfig() (OpenAIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return OpenAIConfig{}, err
	}

	return OpenAIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:     strings.TrimSpace(os.Getenv("AI_BASE_URL")),
		Model:       getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		Temperature: temperature,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
