package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the bot configuration, loaded by Load.
type Config struct {
	BotName       string `validate:"required"`
	CommandPrefix string `validate:"required"`
	SourceURL     string `validate:"omitempty,url"`
	// Owners are administrator user ids. They pass owner checks on tags and
	// may run admin-only commands.
	Owners []uint64

	DataDir      string `validate:"required"`
	CountersFile string `validate:"required"`
	TagsFile     string `validate:"required"`

	HTTP struct {
		Addr string `validate:"required"`
	}
	Log struct {
		Level  string `validate:"oneof=debug info warn error"`
		Format string `validate:"oneof=json console"`
	}
	RateLimit struct {
		// RPS of zero disables rate limiting.
		RPS   float64 `validate:"gte=0"`
		Burst int     `validate:"gte=1"`
	}
}

// Load reads config from environment (TALLY_ prefix) and an optional
// tallybot.yaml in the working directory, or from file when it is set.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("bot_name", "tallybot")
	v.SetDefault("command_prefix", ";")
	v.SetDefault("source_url", "https://github.com/joestump/tallybot")
	v.SetDefault("owners", []string{})
	v.SetDefault("data_dir", ".")
	v.SetDefault("counters_file", "counters.json")
	v.SetDefault("tags_file", "tags.json")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("tallybot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional config file
	}

	cfg := &Config{}
	cfg.BotName = v.GetString("bot_name")
	cfg.CommandPrefix = v.GetString("command_prefix")
	cfg.SourceURL = v.GetString("source_url")
	cfg.DataDir = v.GetString("data_dir")
	cfg.CountersFile = v.GetString("counters_file")
	cfg.TagsFile = v.GetString("tags_file")
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.RateLimit.RPS = v.GetFloat64("ratelimit.rps")
	cfg.RateLimit.Burst = v.GetInt("ratelimit.burst")

	owners, err := parseIDs(v.GetStringSlice("owners"))
	if err != nil {
		return nil, fmt.Errorf("invalid TALLY_OWNERS: %w", err)
	}
	cfg.Owners = owners

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// CountersPath is the counters store file, relative to DataDir unless
// absolute.
func (c *Config) CountersPath() string { return c.resolve(c.CountersFile) }

// TagsPath is the tags store file, relative to DataDir unless absolute.
func (c *Config) TagsPath() string { return c.resolve(c.TagsFile) }

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// parseIDs accepts ids as list items, comma separated, or both.
func parseIDs(items []string) ([]uint64, error) {
	var ids []uint64
	for _, item := range items {
		for _, field := range strings.Split(item, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a user id", field)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
