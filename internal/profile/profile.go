package profile

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// DSN points to where mentor stores conversation data
	DSN string
	// Version is the current version of server
	Version string

	// AllowOrigin is the single origin permitted by CORS.
	AllowOrigin string

	// LLM configuration
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float32

	// Text extraction configuration. Extraction is disabled when TikaURL is empty.
	TikaURL     string
	TikaTimeout time.Duration

	// Chat rate limiting
	ChatRateLimit    int
	ChatRateWindow   time.Duration
	RateLimitBackend string // memory or redis
	RedisAddr        string
	RateLimitSweep   time.Duration

	// ChatSerializePerUser serializes chat turns per user id to prevent
	// lost updates on the conversation document. Disable to restore
	// last-writer-wins behavior.
	ChatSerializePerUser bool

	// ConversationRetention drops conversations untouched for this long.
	// Zero disables the vacuum job.
	ConversationRetention time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// FromEnv loads configuration from MENTOR_* environment variables.
func FromEnv(version string) (*Profile, error) {
	v := viper.New()
	v.SetEnvPrefix("mentor")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 5000)
	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("allow-origin", "http://localhost:5173")
	v.SetDefault("llm-api-key", "")
	v.SetDefault("llm-base-url", "")
	v.SetDefault("llm-model", "gpt-4o-mini")
	v.SetDefault("llm-max-tokens", 2048)
	v.SetDefault("llm-temperature", 0.7)
	v.SetDefault("tika-url", "")
	v.SetDefault("tika-timeout", 30*time.Second)
	v.SetDefault("chat-rate-limit", 5)
	v.SetDefault("chat-rate-window", time.Minute)
	v.SetDefault("rate-limit-backend", "memory")
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("rate-limit-sweep", 5*time.Minute)
	v.SetDefault("chat-serialize-per-user", true)
	v.SetDefault("conversation-retention", time.Duration(0))

	p := &Profile{
		Mode:                  v.GetString("mode"),
		Addr:                  v.GetString("addr"),
		Port:                  v.GetInt("port"),
		Driver:                v.GetString("driver"),
		DSN:                   v.GetString("dsn"),
		Version:               version,
		AllowOrigin:           v.GetString("allow-origin"),
		LLMAPIKey:             v.GetString("llm-api-key"),
		LLMBaseURL:            v.GetString("llm-base-url"),
		LLMModel:              v.GetString("llm-model"),
		LLMMaxTokens:          v.GetInt("llm-max-tokens"),
		LLMTemperature:        float32(v.GetFloat64("llm-temperature")),
		TikaURL:               v.GetString("tika-url"),
		TikaTimeout:           v.GetDuration("tika-timeout"),
		ChatRateLimit:         v.GetInt("chat-rate-limit"),
		ChatRateWindow:        v.GetDuration("chat-rate-window"),
		RateLimitBackend:      v.GetString("rate-limit-backend"),
		RedisAddr:             v.GetString("redis-addr"),
		RateLimitSweep:        v.GetDuration("rate-limit-sweep"),
		ChatSerializePerUser:  v.GetBool("chat-serialize-per-user"),
		ConversationRetention: v.GetDuration("conversation-retention"),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile and fails fast on missing required settings.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}

	switch p.Driver {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.DSN == "" {
		return errors.New("missing MENTOR_DSN: a conversation store DSN is required")
	}
	if p.Mode == "prod" && p.LLMAPIKey == "" {
		return errors.New("missing MENTOR_LLM_API_KEY")
	}

	switch p.RateLimitBackend {
	case "memory", "redis":
	default:
		return errors.Errorf("unknown rate limit backend %q: only 'memory' and 'redis' are supported", p.RateLimitBackend)
	}

	if p.ChatRateLimit <= 0 {
		p.ChatRateLimit = 5
	}
	if p.ChatRateWindow <= 0 {
		p.ChatRateWindow = time.Minute
	}
	return nil
}
