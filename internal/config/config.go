package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	GLOBAL_LANGUAGE           = "global.interface_language"
	GLOBAL_TASK_RETENTION     = "global.task_retention_days"
	HTTP_PROXY                = "http.proxy"
	HTTP_NO_PROXY             = "http.no_proxy"
	TELEGRAM_TOKEN            = "telegram.token"
	TELEGRAM_API_ID           = "telegram.api_id"
	TELEGRAM_API_HASH         = "telegram.api_hash"
	TELEGRAM_ALLOWED_USERS    = "telegram.allowed_users"
	TELEGRAM_ALLOWED_CHATS    = "telegram.allowed_chats"
	TELEGRAM_OWNERS           = "telegram.owners"
	TELEGRAM_ADMINS           = "telegram.admins"
	TELEGRAM_OWNERS_FILE      = "telegram.owners_file"
	TELEGRAM_ADMINS_FILE      = "telegram.admins_file"
	DATABASE_DSN              = "database.dsn"
	PROBE_STORE               = "probe.store"
	MONGO_URI                 = "mongo.uri"
	MONGO_DATABASE            = "mongo.database"
	OPENAI_API_KEY            = "ai.openai.api_key"
	OPENAI_BASE_URL           = "ai.openai.base_url"
	OPENAI_MODEL              = "ai.openai.model"
	OPENAI_MAX_TOKENS         = "ai.openai.max_tokens"
	OPENAI_SYSTEM_PROMPT      = "ai.openai.system_prompt"
	GEMINI_API_KEY            = "ai.gemini.api_key"
	GEMINI_MODEL              = "ai.gemini.model"
	BOTACAX_BASE_URL          = "botacax.base_url"
	BOTACAX_API_KEY           = "botacax.api_key"
	BOTACAX_USERINFO          = "botacax.userinfo_endpoint"
	BOTACAX_TIKTOK            = "botacax.tiktok_endpoint"
	YOUTUBE_DOWNLOAD_DIR      = "youtube.download_dir"
	YOUTUBE_COOKIES_FILE      = "youtube.cookies_file"
	YOUTUBE_MAX_SIZE          = "youtube.max_size"
	LOGGING_LEVEL             = "logging.level"
	LOGGING_WRITE_IN_FILE     = "logging.write_in_file"
	LOGGING_FILE_PATH         = "logging.file_path"
	LOGGING_FORMAT            = "logging.format"
	envPrefix                 = "TGCHECKER_"
	ProbeStoreSQLite          = "sqlite"
	ProbeStoreMongo           = "mongo"
	defaultOpenAIModel        = "gpt-3.5-turbo"
	defaultGeminiModel        = "gemini-pro"
	defaultOpenAISystemPrompt = "You are a helpful assistant."
)

var defaultSQLiteParams = map[string]string{
	"_journal":      "WAL",
	"_busy_timeout": "10000",
	"_synchronous":  "NORMAL",
	"_cache":        "shared",
	"_auto_vacuum":  "INCREMENTAL",
}

var defaults = map[string]any{
	GLOBAL_LANGUAGE:       "en",
	GLOBAL_TASK_RETENTION: 7,
	TELEGRAM_TOKEN:        "",
	TELEGRAM_API_ID:       0,
	TELEGRAM_API_HASH:     "",
	TELEGRAM_OWNERS_FILE:  "owners.txt",
	TELEGRAM_ADMINS_FILE:  "admins.txt",
	HTTP_PROXY:            nil,
	DATABASE_DSN:          "checker.db?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL&_cache=shared",
	PROBE_STORE:           ProbeStoreSQLite,
	MONGO_URI:             "",
	MONGO_DATABASE:        "telegram_checker_db",
	OPENAI_API_KEY:        "",
	OPENAI_BASE_URL:       "",
	OPENAI_MODEL:          defaultOpenAIModel,
	OPENAI_MAX_TOKENS:     500,
	OPENAI_SYSTEM_PROMPT:  defaultOpenAISystemPrompt,
	GEMINI_API_KEY:        "",
	GEMINI_MODEL:          defaultGeminiModel,
	BOTACAX_BASE_URL:      "https://api.botacax.com/v1/",
	BOTACAX_API_KEY:       "",
	BOTACAX_USERINFO:      "userinfo",
	BOTACAX_TIKTOK:        "tiktok_dl",
	YOUTUBE_DOWNLOAD_DIR:  "downloads/",
	YOUTUBE_COOKIES_FILE:  "cookies.txt",
	YOUTUBE_MAX_SIZE:      "50M", // max size for normal bots without special permission
	LOGGING_LEVEL:         "info",
	LOGGING_WRITE_IN_FILE: false,
	LOGGING_FILE_PATH:     "checker.log",
	LOGGING_FORMAT:        "text",

	"commands.start.enabled":       true,
	"commands.start.queue.enabled": false,

	"commands.check_number.enabled":                 true,
	"commands.check_number.queue.enabled":           true,
	"commands.check_number.queue.max_retries":       0,
	"commands.check_number.queue.timeout":           1 * time.Minute,
	"commands.check_number.queue.throttle.period":   10 * time.Second,
	"commands.check_number.queue.throttle.requests": 2,
	"commands.check_otp.enabled":                    true,
	"commands.check_otp.queue.enabled":              true,
	"commands.check_otp.queue.max_retries":          0,
	"commands.check_otp.queue.timeout":              1 * time.Minute,
	"commands.check_otp.queue.throttle.period":      10 * time.Second,
	"commands.check_otp.queue.throttle.requests":    2,
	"commands.check_a2f.enabled":                    true,
	"commands.check_a2f.queue.enabled":              true,
	"commands.check_a2f.queue.max_retries":          0,
	"commands.check_a2f.queue.timeout":              1 * time.Minute,
	"commands.check_a2f.queue.throttle.period":      10 * time.Second,
	"commands.check_a2f.queue.throttle.requests":    2,

	"commands.getuser.enabled":       true,
	"commands.getuser.queue.enabled": false,

	"commands.ask_openai.enabled":                    true,
	"commands.ask_openai.queue.enabled":              true,
	"commands.ask_openai.queue.timeout":              2 * time.Minute,
	"commands.ask_openai.queue.throttle.period":      20 * time.Second,
	"commands.ask_openai.queue.throttle.requests":    2,
	"commands.ask_openai.queue.throttle.concurrency": 2,
	"commands.ask_gemini.enabled":                    true,
	"commands.ask_gemini.queue.enabled":              true,
	"commands.ask_gemini.queue.timeout":              2 * time.Minute,
	"commands.ask_gemini.queue.throttle.period":      20 * time.Second,
	"commands.ask_gemini.queue.throttle.requests":    2,
	"commands.ask_gemini.queue.throttle.concurrency": 2,
	"commands.tiktok_dl.enabled":                     true,
	"commands.tiktok_dl.queue.enabled":               true,
	"commands.tiktok_dl.queue.timeout":               2 * time.Minute,
	"commands.tiktok_dl.queue.throttle.period":       10 * time.Second,
	"commands.song.enabled":                          true,
	"commands.song.queue.enabled":                    true,
	"commands.song.queue.max_retries":                0,
	"commands.song.queue.timeout":                    5 * time.Minute,
	"commands.song.queue.throttle.period":            30 * time.Second,
	"commands.song.queue.throttle.requests":          3,
	"commands.song.queue.throttle.concurrency":       3,
	"commands.vsong.enabled":                         true,
	"commands.vsong.queue.enabled":                   true,
	"commands.vsong.queue.max_retries":               0,
	"commands.vsong.queue.timeout":                   5 * time.Minute,
	"commands.vsong.queue.throttle.period":           30 * time.Second,
	"commands.vsong.queue.throttle.requests":         3,
	"commands.vsong.queue.throttle.concurrency":      3,
}

type Config struct {
	k *koanf.Koanf
}

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
}

func Load() (*Config, error) {
	k := koanf.New(".")
	k.Load(confmap.Provider(defaults, "."), nil)

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %v", path, err)
			}
			break
		}
	}

	k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// TGCHECKER_AI__OPENAI__API_KEY -> ai.openai.api_key
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__", ".",
		)
	}), nil)

	cfg := &Config{k: k}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap builds a config from defaults overlaid with values, skipping files
// and environment. Used by tests and tooling.
func FromMap(values map[string]any) (*Config, error) {
	k := koanf.New(".")
	k.Load(confmap.Provider(defaults, "."), nil)
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, err
	}
	return &Config{k: k}, nil
}

func (c *Config) validate() error {
	if c.k.String(TELEGRAM_TOKEN) == "" {
		return fmt.Errorf("telegram token is required")
	}
	switch c.k.String(PROBE_STORE) {
	case ProbeStoreSQLite:
	case ProbeStoreMongo:
		if c.k.String(MONGO_URI) == "" {
			return fmt.Errorf("mongo uri is required when probe.store is %q", ProbeStoreMongo)
		}
	default:
		return fmt.Errorf("unknown probe store %q", c.k.String(PROBE_STORE))
	}
	return nil
}

func (c *Config) GetCommandConfig(name string) *commandConfig {
	concurrency := c.k.Int(fmt.Sprintf("commands.%s.queue.throttle.concurrency", name))
	if concurrency == 0 {
		concurrency = 1
	}
	requests := c.k.Int(fmt.Sprintf("commands.%s.queue.throttle.requests", name))
	if requests == 0 {
		requests = 1
	}
	period := c.k.Duration(fmt.Sprintf("commands.%s.queue.throttle.period", name))
	if period == 0 {
		period = 10 * time.Second
	}
	timeout := c.k.Duration(fmt.Sprintf("commands.%s.queue.timeout", name))
	if timeout == 0 {
		timeout = 1 * time.Minute
	}
	return &commandConfig{
		Enabled: c.k.Bool(fmt.Sprintf("commands.%s.enabled", name)),
		Queue: queueOptions{
			Enabled:    c.k.Bool(fmt.Sprintf("commands.%s.queue.enabled", name)),
			MaxRetries: c.k.Int(fmt.Sprintf("commands.%s.queue.max_retries", name)),
			RetryDelay: c.k.Duration(fmt.Sprintf("commands.%s.queue.retry_delay", name)),
			Timeout:    timeout,
			Throttle: queueThrottleOptions{
				Concurrency: concurrency,
				Period:      period,
				Requests:    requests,
			},
		},
	}
}

func (c *Config) Telegram() TelegramConfig {
	var cfg TelegramConfig
	if err := c.k.Unmarshal("telegram", &cfg); err != nil {
		log.Fatalf("telegramConfig unmarshal error: %v", err)
		return TelegramConfig{}
	}
	return cfg
}

func (c *Config) Probe() ProbeConfig {
	return ProbeConfig{
		Store: c.k.String(PROBE_STORE),
	}
}

func (c *Config) Mongo() MongoConfig {
	return MongoConfig{
		URI:      c.k.String(MONGO_URI),
		Database: c.k.String(MONGO_DATABASE),
	}
}

func (c *Config) OpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       c.k.String(OPENAI_API_KEY),
		BaseURL:      c.k.String(OPENAI_BASE_URL),
		Model:        c.k.String(OPENAI_MODEL),
		MaxTokens:    c.k.Int(OPENAI_MAX_TOKENS),
		SystemPrompt: c.k.String(OPENAI_SYSTEM_PROMPT),
	}
}

func (c *Config) Gemini() GeminiConfig {
	return GeminiConfig{
		APIKey: c.k.String(GEMINI_API_KEY),
		Model:  c.k.String(GEMINI_MODEL),
	}
}

func (c *Config) BotAcax() BotAcaxConfig {
	return BotAcaxConfig{
		BaseURL:          c.k.String(BOTACAX_BASE_URL),
		APIKey:           c.k.String(BOTACAX_API_KEY),
		UserInfoEndpoint: c.k.String(BOTACAX_USERINFO),
		TikTokEndpoint:   c.k.String(BOTACAX_TIKTOK),
	}
}

func (c *Config) Youtube() youtubeConfig {
	return youtubeConfig{
		DownloadDir: c.k.String(YOUTUBE_DOWNLOAD_DIR),
		CookiesFile: c.k.String(YOUTUBE_COOKIES_FILE),
		MaxSize:     c.k.String(YOUTUBE_MAX_SIZE),
	}
}

func (c *Config) Log() LoggingConfig {
	return LoggingConfig{
		LogLevel:    c.k.String(LOGGING_LEVEL),
		WriteInFile: c.k.Bool(LOGGING_WRITE_IN_FILE),
		FilePath:    c.k.String(LOGGING_FILE_PATH),
		Format:      c.k.String(LOGGING_FORMAT),
	}
}

func (c *Config) GetDatabaseDSN() string {
	dsn := c.k.String(DATABASE_DSN)
	parts := strings.Split(dsn, "?")
	path := parts[0]

	params := make(map[string]string)
	if len(parts) > 1 {
		for param := range strings.SplitSeq(parts[1], "&") {
			if kv := strings.Split(param, "="); len(kv) == 2 {
				params[kv[0]] = kv[1]
			}
		}
	}

	for k, v := range defaultSQLiteParams {
		if _, exists := params[k]; !exists {
			params[k] = v
		}
	}

	var queryParams []string
	for k, v := range params {
		queryParams = append(queryParams, k+"="+v)
	}
	sort.Strings(queryParams)

	if len(queryParams) > 0 {
		return path + "?" + strings.Join(queryParams, "&")
	}
	return path
}

func (c *Config) Global() globalConfig {
	return globalConfig{
		InterfaceLanguage: c.k.String(GLOBAL_LANGUAGE),
		TaskRetentionDays: c.k.Int(GLOBAL_TASK_RETENTION),
	}
}

func (c *Config) HTTP() HTTPConfig {
	var proxy string
	if proxyValue := c.k.Get(HTTP_PROXY); proxyValue != nil {
		proxy, _ = proxyValue.(string)
	}

	return HTTPConfig{
		proxy:   &proxy,
		noProxy: c.k.Strings(HTTP_NO_PROXY),
	}
}

func getConfigPaths() []string {
	if configPath != "" {
		return []string{configPath}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		"checker.toml",
		"config.toml",
		filepath.Join(xdgConfig, "tgchecker", "config.toml"),
		"/etc/tgchecker/config.toml",
	}
}
