package config

import (
	"bufio"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type globalConfig struct {
	InterfaceLanguage string `koanf:"interface_language"`
	TaskRetentionDays int    `koanf:"task_retention_days"`
}

type HTTPConfig struct {
	proxy   *string  `koanf:"proxy"`
	noProxy []string `koanf:"no_proxy"`
}

func NewHTTPConfig(proxy string) HTTPConfig {
	return HTTPConfig{proxy: &proxy}
}

func (c HTTPConfig) GetProxy() string {
	if c.proxy != nil && *c.proxy != "" {
		return *c.proxy
	}
	if proxyURL := os.Getenv("HTTPS_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("https_proxy"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("HTTP_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("http_proxy"); proxyURL != "" {
		return proxyURL
	}
	return ""
}

func (c HTTPConfig) GetNoProxy() []string {
	return c.noProxy
}

type LoggingConfig struct {
	LogLevel    string `koanf:"level"`
	WriteInFile bool   `koanf:"write_in_file"`
	FilePath    string `koanf:"file_path"`
	Format      string `koanf:"format"`
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}

func (c LoggingConfig) IsJSON() bool {
	return strings.EqualFold(c.Format, "json")
}

type TelegramConfig struct {
	Token        string  `koanf:"token"`
	AllowedUsers []int64 `koanf:"allowed_users"`
	AllowedChats []int64 `koanf:"allowed_chats"`
	Owners       []int64 `koanf:"owners"`
	Admins       []int64 `koanf:"admins"`
	OwnersFile   string  `koanf:"owners_file"`
	AdminsFile   string  `koanf:"admins_file"`

	// MTProto credentials, https://my.telegram.org/
	ApiID   int    `koanf:"api_id"`
	ApiHash string `koanf:"api_hash"`
}

func (c TelegramConfig) IsAllowed(userID int64, chatID int64) bool {
	return c.IsUserAllowed(userID) && c.IsChatAllowed(chatID)
}

// IsUserAllowed treats an empty allow list as open access.
func (c TelegramConfig) IsUserAllowed(userID int64) bool {
	allowedUsers := c.AllowedUsers
	if len(allowedUsers) == 0 {
		return true
	}

	return slices.Contains(allowedUsers, userID)
}

func (c TelegramConfig) IsChatAllowed(chatID int64) bool {
	allowedChats := c.AllowedChats
	if len(allowedChats) == 0 {
		return true
	}

	return slices.Contains(allowedChats, chatID)
}

func (c TelegramConfig) MTProtoEnabled() bool {
	return c.ApiID != 0 && c.ApiHash != ""
}

type ProbeConfig struct {
	Store string `koanf:"store"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type OpenAIConfig struct {
	APIKey       string `koanf:"api_key"`
	BaseURL      string `koanf:"base_url"`
	Model        string `koanf:"model"`
	MaxTokens    int    `koanf:"max_tokens"`
	SystemPrompt string `koanf:"system_prompt"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type BotAcaxConfig struct {
	BaseURL          string `koanf:"base_url"`
	APIKey           string `koanf:"api_key"`
	UserInfoEndpoint string `koanf:"userinfo_endpoint"`
	TikTokEndpoint   string `koanf:"tiktok_endpoint"`
}

func (c BotAcaxConfig) UserInfoEnabled() bool {
	return c.APIKey != "" && c.UserInfoEndpoint != ""
}

func (c BotAcaxConfig) TikTokEnabled() bool {
	return c.APIKey != "" && c.TikTokEndpoint != ""
}

type youtubeConfig struct {
	DownloadDir string `koanf:"download_dir"`
	CookiesFile string `koanf:"cookies_file"`
	MaxSize     string `koanf:"max_size"`
}

type queueThrottleOptions struct {
	Period      time.Duration `koanf:"period"`
	Concurrency int           `koanf:"concurrency"`
	Requests    int           `koanf:"requests"`
}

type queueOptions struct {
	Enabled    bool                 `koanf:"enabled"`
	MaxRetries int                  `koanf:"max_retries"`
	RetryDelay time.Duration        `koanf:"retry_delay"`
	Timeout    time.Duration        `koanf:"timeout"`
	Throttle   queueThrottleOptions `koanf:"throttle"`
}

type commandConfig struct {
	Enabled bool         `koanf:"enabled"`
	Queue   queueOptions `koanf:"queue"`
}

// LoadIDsFromFile reads one numeric id per line. Blank lines are ignored and
// lines that are not integers are returned in skipped. A missing file is
// reported as an os.ErrNotExist error.
func LoadIDsFromFile(path string) (ids []int64, skipped []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			skipped = append(skipped, line)
			continue
		}
		ids = append(ids, id)
	}
	return ids, skipped, scanner.Err()
}
