package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "TAIGIBOT_CONFIG"
	dotEnvFile    = ".env"

	PlatformDiscord  = "discord"
	PlatformTelegram = "telegram"
)

// KnownSources lists the source names the bot can query, in default order.
var KnownSources = []string{"TaigiTV", "Sutian", "iTaigi"}

// Config holds the settings required across the application.
type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Discord  DiscordConfig  `yaml:"discord"`
	Telegram TelegramConfig `yaml:"telegram"`
	Sources  SourcesConfig  `yaml:"sources"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BotConfig controls which messages are answered and how.
type BotConfig struct {
	Platform         string `yaml:"platform"         env:"BOT_PLATFORM"           env-default:"discord"`
	ChannelID        string `yaml:"channelId"        env:"BOT_CHANNEL_ID"         env-default:"1372944023026794576"`
	Prompt           string `yaml:"prompt"           env:"BOT_PROMPT"             env-default:"Please provide a keyword to search for."`
	NoResultReaction string `yaml:"noResultReaction" env:"BOT_NO_RESULT_REACTION" env-default:"❌"`
}

// DiscordConfig wires the Discord gateway.
type DiscordConfig struct {
	Token string `yaml:"token" env:"DISCORD_TOKEN"`
}

// TelegramConfig wires the Telegram Bot API gateway.
type TelegramConfig struct {
	BotToken    string        `yaml:"botToken"    env:"TELEGRAM_BOT_TOKEN"`
	APIURL      string        `yaml:"apiUrl"      env:"TELEGRAM_API_URL"      env-default:"https://api.telegram.org"`
	PollTimeout time.Duration `yaml:"pollTimeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"30s"`
}

// SourcesConfig selects the dictionaries to query and where they live.
type SourcesConfig struct {
	Enabled        []string `yaml:"enabled"        env:"SOURCES_ENABLED"     env-separator:","`
	TaigiTVBaseURL string   `yaml:"taigitvBaseUrl" env:"SOURCES_TAIGITV_URL" env-default:"https://www.taigitv.org.tw"`
	SutianBaseURL  string   `yaml:"sutianBaseUrl"  env:"SOURCES_SUTIAN_URL"  env-default:"https://sutian.moe.edu.tw"`
	ITaigiBaseURL  string   `yaml:"itaigiBaseUrl"  env:"SOURCES_ITAIGI_URL"  env-default:"https://itaigi.tw"`
}

// LoggingConfig selects verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads the optional YAML file named by TAIGIBOT_CONFIG, applies a .env
// file and the process environment on top, then validates the result.
// Priority: ENV > .env > YAML > defaults.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", dotEnvFile, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	if len(cfg.Sources.Enabled) == 0 {
		cfg.Sources.Enabled = slices.Clone(KnownSources)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

// Validate checks that the selected platform has credentials and every
// enabled source is known.
func (c *Config) Validate() error {
	switch c.Bot.Platform {
	case PlatformDiscord:
		if c.Discord.Token == "" {
			return fmt.Errorf("discord token is required (set DISCORD_TOKEN)")
		}
	case PlatformTelegram:
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram bot token is required (set TELEGRAM_BOT_TOKEN)")
		}
	default:
		return fmt.Errorf("unknown bot platform %q", c.Bot.Platform)
	}

	if c.Bot.ChannelID == "" {
		return fmt.Errorf("bot channel id is required")
	}

	if len(c.Sources.Enabled) == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}
	for _, name := range c.Sources.Enabled {
		if !slices.Contains(KnownSources, name) {
			return fmt.Errorf("unknown source %q", name)
		}
	}

	return nil
}
