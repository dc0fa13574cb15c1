package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/measure-cli/internal/locale"
	"github.com/sells-group/measure-cli/internal/units"
)

// UnitsAuto selects the unit system from the configured locale.
const UnitsAuto = "auto"

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Locale LocaleConfig `yaml:"locale" mapstructure:"locale"`
	Units  UnitsConfig  `yaml:"units" mapstructure:"units"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the PostGIS feature source.
type StoreConfig struct {
	DatabaseURL     string `yaml:"database_url" mapstructure:"database_url"`
	Table           string `yaml:"table" mapstructure:"table"`
	ConnectAttempts int    `yaml:"connect_attempts" mapstructure:"connect_attempts"`
}

// LocaleConfig selects display strings.
type LocaleConfig struct {
	Tag         string `yaml:"tag" mapstructure:"tag"`
	StringsFile string `yaml:"strings_file" mapstructure:"strings_file"`
}

// UnitsConfig selects the initial unit system: auto, metric or imperial.
type UnitsConfig struct {
	System string `yaml:"system" mapstructure:"system"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// RateLimit is the allowed measurement requests per second; 0 disables.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("MEASURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("locale.tag", "en-US")
	v.SetDefault("locale.strings_file", "")
	v.SetDefault("units.system", UnitsAuto)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.table", "features")
	v.SetDefault("store.connect_attempts", 3)

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

// Validate checks the settings a command mode depends on. Modes are
// "measure" and "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "measure":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
			problems = append(problems, "server.rate_limit and server.rate_burst must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if _, err := locale.ParseTag(c.Locale.Tag); err != nil {
		problems = append(problems, "locale.tag is not a valid language tag")
	}
	if c.Units.System != "" && c.Units.System != UnitsAuto {
		if _, err := units.Parse(c.Units.System); err != nil {
			problems = append(problems, "units.system must be auto, metric or imperial")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// UnitSystem resolves the initial unit system. "auto" and an empty value
// follow the locale.
func (c *Config) UnitSystem() (units.System, error) {
	if c.Units.System != "" && c.Units.System != UnitsAuto {
		system, err := units.Parse(c.Units.System)
		if err != nil {
			return units.Metric, eris.Wrap(err, "config: units.system")
		}
		return system, nil
	}

	tag, err := locale.ParseTag(c.Locale.Tag)
	if err != nil {
		return units.Metric, eris.Wrap(err, "config: locale.tag")
	}
	return locale.DetectUnitSystem(tag), nil
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
