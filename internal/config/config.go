package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Media     MediaConfig     `mapstructure:"media"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type LLMConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
	Ollama          OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

// ChatConfig tunes the answer pipeline.
type ChatConfig struct {
	TopK              int             `mapstructure:"top_k"`
	MaxContextChars   int             `mapstructure:"max_context_chars"`
	HistoryLimit      int             `mapstructure:"history_limit"`
	FeedbackStrategy  string          `mapstructure:"feedback_strategy"`
	FeedbackStore     string          `mapstructure:"feedback_store"`
	RetrievalTimeout  time.Duration   `mapstructure:"retrieval_timeout"`
	GenerationTimeout time.Duration   `mapstructure:"generation_timeout"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// RetrievalConfig tunes the embedding backend of the passage search.
type RetrievalConfig struct {
	Provider     string `mapstructure:"provider"`
	GeminiModel  string `mapstructure:"gemini_model"`
	OllamaModel  string `mapstructure:"ollama_model"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
}

type MediaConfig struct {
	UploadDir    string `mapstructure:"upload_dir"`
	TempAudioDir string `mapstructure:"temp_audio_dir"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "90s")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "parenthaven")
	v.SetDefault("database.database", "parenthaven")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h") // 7 days

	// LLM
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.gemini.model", "gemini-2.5-pro")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.ollama.host", "")
	v.SetDefault("llm.ollama.default_model", "llama3")

	// Chat pipeline
	v.SetDefault("chat.top_k", 5)
	v.SetDefault("chat.max_context_chars", 400)
	v.SetDefault("chat.history_limit", 5)
	v.SetDefault("chat.feedback_strategy", "positional")
	v.SetDefault("chat.feedback_store", "memory")
	v.SetDefault("chat.retrieval_timeout", "10s")
	v.SetDefault("chat.generation_timeout", "30s")
	v.SetDefault("chat.rate_limit.requests_per_minute", 60)
	v.SetDefault("chat.rate_limit.burst", 10)

	// Retrieval
	v.SetDefault("retrieval.provider", "gemini")
	v.SetDefault("retrieval.gemini_model", "text-embedding-004")
	v.SetDefault("retrieval.ollama_model", "nomic-embed-text")
	v.SetDefault("retrieval.chunk_size", 1000)
	v.SetDefault("retrieval.chunk_overlap", 200)

	// Media
	v.SetDefault("media.upload_dir", "uploaded_media")
	v.SetDefault("media.temp_audio_dir", "temp_audio")
	v.SetDefault("media.max_upload_mb", 50)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("database.host", "POSTGRES_HOST")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// LLM API keys
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.gemini.model", "CHAT_MODEL")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// Chat
	v.BindEnv("chat.max_context_chars", "MAX_CONTEXT_CHARS")
}
