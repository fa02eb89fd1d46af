package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	configPathEnv,
	"BOT_PLATFORM", "BOT_CHANNEL_ID", "BOT_PROMPT", "BOT_NO_RESULT_REACTION",
	"DISCORD_TOKEN",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL", "TELEGRAM_POLL_TIMEOUT",
	"SOURCES_ENABLED", "SOURCES_TAIGITV_URL", "SOURCES_SUTIAN_URL", "SOURCES_ITAIGI_URL",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRequiresToken(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}
	if !strings.Contains(err.Error(), "DISCORD_TOKEN") {
		t.Fatalf("error should name the missing variable: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Bot.Platform != PlatformDiscord {
		t.Errorf("Platform = %q, want %q", cfg.Bot.Platform, PlatformDiscord)
	}
	if cfg.Bot.ChannelID != "1372944023026794576" {
		t.Errorf("ChannelID = %q", cfg.Bot.ChannelID)
	}
	if cfg.Bot.NoResultReaction != "❌" {
		t.Errorf("NoResultReaction = %q", cfg.Bot.NoResultReaction)
	}
	if cfg.Bot.Prompt != "Please provide a keyword to search for." {
		t.Errorf("Prompt = %q", cfg.Bot.Prompt)
	}
	if strings.Join(cfg.Sources.Enabled, ",") != "TaigiTV,Sutian,iTaigi" {
		t.Errorf("Enabled = %v", cfg.Sources.Enabled)
	}
	if cfg.Sources.ITaigiBaseURL != "https://itaigi.tw" {
		t.Errorf("ITaigiBaseURL = %q", cfg.Sources.ITaigiBaseURL)
	}
	if cfg.Telegram.PollTimeout != 30*time.Second {
		t.Errorf("PollTimeout = %v", cfg.Telegram.PollTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "taigibot.yaml", `
bot:
  channelId: "998877"
discord:
  token: from-file
sources:
  enabled: [iTaigi, TaigiTV]
logging:
  level: debug
  format: json
`)
	t.Setenv(configPathEnv, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Bot.ChannelID != "998877" {
		t.Errorf("ChannelID = %q, want 998877", cfg.Bot.ChannelID)
	}
	if cfg.Discord.Token != "from-file" {
		t.Errorf("Token = %q", cfg.Discord.Token)
	}
	if strings.Join(cfg.Sources.Enabled, ",") != "iTaigi,TaigiTV" {
		t.Errorf("Enabled = %v", cfg.Sources.Enabled)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	writeFile(t, wd, ".env", "DISCORD_TOKEN=from-dotenv\nSOURCES_ENABLED=Sutian\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Discord.Token != "from-dotenv" {
		t.Errorf("Token = %q, want from-dotenv", cfg.Discord.Token)
	}
	if strings.Join(cfg.Sources.Enabled, ",") != "Sutian" {
		t.Errorf("Enabled = %v", cfg.Sources.Enabled)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Bot:     BotConfig{Platform: PlatformDiscord, ChannelID: "1"},
			Discord: DiscordConfig{Token: "t"},
			Sources: SourcesConfig{Enabled: []string{"TaigiTV"}},
		}
	}

	cases := map[string]func(*Config){
		"unknown platform":  func(c *Config) { c.Bot.Platform = "irc" },
		"telegram no token": func(c *Config) { c.Bot.Platform = PlatformTelegram },
		"empty channel":     func(c *Config) { c.Bot.ChannelID = "" },
		"no sources":        func(c *Config) { c.Sources.Enabled = nil },
		"unknown source":    func(c *Config) { c.Sources.Enabled = []string{"Moedict"} },
		"discord no token":  func(c *Config) { c.Discord.Token = "" },
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for name, mutate := range cases {
		cfg := valid()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	tg := valid()
	tg.Bot.Platform = PlatformTelegram
	tg.Telegram.BotToken = "123:abc"
	if err := tg.Validate(); err != nil {
		t.Errorf("telegram config rejected: %v", err)
	}
}
