package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// GateConfig configures one sliding-window rate gate instance.
type GateConfig struct {
	Window time.Duration `yaml:"window"`
	Max    int           `yaml:"max"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	RateLimit struct {
		Inbound  GateConfig `yaml:"inbound"`
		Outbound GateConfig `yaml:"outbound"`
		Push     GateConfig `yaml:"push"`
	} `yaml:"rate_limit"`
	Refresh struct {
		Prices    time.Duration `yaml:"prices" default:"60s"`
		Aggregate time.Duration `yaml:"aggregate" default:"120s"`
		News      time.Duration `yaml:"news" default:"300s"`
		Whales    time.Duration `yaml:"whales" default:"120s"`
		Calendar  time.Duration `yaml:"calendar" default:"1h"`
		Fed       time.Duration `yaml:"fed" default:"1h"`
	} `yaml:"refresh"`
	Upstream struct {
		Timeout     time.Duration  `yaml:"timeout" default:"10s"`
		CoinGecko   ProviderConfig `yaml:"coingecko"`
		CoinPaprika ProviderConfig `yaml:"coinpaprika"`
		FearGreed   ProviderConfig `yaml:"fear_greed"`
		CryptoPanic ProviderConfig `yaml:"cryptopanic"`
		WhaleAlert  ProviderConfig `yaml:"whale_alert"`
		Calendar    ProviderConfig `yaml:"calendar"`
		Fred        ProviderConfig `yaml:"fred"`
	} `yaml:"upstream"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl" default:"30s"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Export struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		Topic       string   `yaml:"topic" default:"market-updates"`
		Compression string   `yaml:"compression" default:"gzip"`
	} `yaml:"export"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// ProviderConfig holds one upstream provider's endpoint and credentials.
// An empty base URL disables the provider, so its adapter runs on fallback data.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Load reads and parses a YAML configuration file. A missing file is not an
// error: the documented defaults apply and every upstream runs on fallback data.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	applyGateDefaults(&c)

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyGateDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Upstream.CoinGecko.APIKey = v
	}
	if v := os.Getenv("CRYPTOPANIC_API_KEY"); v != "" {
		c.Upstream.CryptoPanic.APIKey = v
	}
	if v := os.Getenv("WHALE_ALERT_API_KEY"); v != "" {
		c.Upstream.WhaleAlert.APIKey = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Upstream.Fred.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Export.Enabled = true
		c.Export.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	for name, g := range map[string]GateConfig{
		"inbound":  c.RateLimit.Inbound,
		"outbound": c.RateLimit.Outbound,
		"push":     c.RateLimit.Push,
	} {
		if g.Window <= 0 || g.Max <= 0 {
			return fmt.Errorf("rate_limit.%s must have positive window and max", name)
		}
	}
	if c.Export.Enabled && len(c.Export.Brokers) == 0 {
		return fmt.Errorf("export.brokers required when export is enabled")
	}
	return nil
}

// applyGateDefaults fills rate-gate instances that the file left unset.
// defaults tags cannot express nested struct literals, so these live here.
func applyGateDefaults(c *Config) {
	if c.RateLimit.Inbound == (GateConfig{}) {
		c.RateLimit.Inbound = GateConfig{Window: time.Minute, Max: 100}
	}
	if c.RateLimit.Outbound == (GateConfig{}) {
		c.RateLimit.Outbound = GateConfig{Window: time.Minute, Max: 30}
	}
	if c.RateLimit.Push == (GateConfig{}) {
		c.RateLimit.Push = GateConfig{Window: time.Minute, Max: 60}
	}
}
