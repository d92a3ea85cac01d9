package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the precomputed artifacts. Dir sets the base
// directory; each artifact can also be pointed at individually.
type DataConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	Zones         string `yaml:"zones" mapstructure:"zones"`
	Lookup        string `yaml:"lookup" mapstructure:"lookup"`
	Flows         string `yaml:"flows" mapstructure:"flows"`
	ZoneHours     string `yaml:"zone_hours" mapstructure:"zone_hours"`
	TimeSeries    string `yaml:"timeseries" mapstructure:"timeseries"`
	FlowSemantics string `yaml:"flow_semantics" mapstructure:"flow_semantics"`
	ZoneSemantics string `yaml:"zone_semantics" mapstructure:"zone_semantics"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	StaticDir      string   `yaml:"static_dir" mapstructure:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TAXIFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data/processed")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "web")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the subset of configuration a command actually needs.
// Mode is the command name: "serve" requires the HTTP settings on top of
// the data settings every mode needs.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Data.Dir == "" && c.Data.Zones == "" {
		problems = append(problems, "data.dir or data.zones is required")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit < 0 {
			problems = append(problems, "server.rate_limit must be >= 0")
		}
		if c.Server.RateBurst < 0 {
			problems = append(problems, "server.rate_burst must be >= 0")
		}
	case "validate", "snapshot":
		// data settings only
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
