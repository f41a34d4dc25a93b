package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muratoffalex/tgchecker/internal/cache"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/logger"
)

const (
	botAcaxUserInfoTimeout = 10 * time.Second
	botAcaxTikTokTimeout   = 30 * time.Second
	botAcaxUserInfoTTL     = time.Hour
	botAcaxStatusSuccess   = "success"
	maxBotAcaxBody         = 1 << 20
)

var (
	ErrBotAcaxNotConfigured = errors.New("botacax endpoint is not configured")
	ErrBotAcaxNoData        = errors.New("botacax returned no data")
)

// BotAcaxError is a response whose status is not "success".
type BotAcaxError struct {
	StatusCode int
	Message    string
}

func (e *BotAcaxError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("botacax request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type botAcaxEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// looseString accepts JSON strings, numbers and null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

type BotAcaxUser struct {
	FullName         string      `json:"full_name"`
	TelegramUsername string      `json:"telegram_username"`
	TelegramBio      string      `json:"telegram_bio"`
	GithubID         looseString `json:"github_id"`
	GithubUsername   string      `json:"github_username"`
	GithubEmail      string      `json:"github_email"`
}

type TikTokVideo struct {
	VideoURLNoWatermark string `json:"video_url_no_watermark"`
	VideoURL            string `json:"video_url"`
	Title               string `json:"title"`
	Author              string `json:"author"`
}

// DownloadURL prefers the watermark-free variant.
func (v TikTokVideo) DownloadURL() string {
	if v.VideoURLNoWatermark != "" {
		return v.VideoURLNoWatermark
	}
	return v.VideoURL
}

type BotAcaxClient struct {
	apiKey           string
	userInfoEndpoint string
	tiktokEndpoint   string
	httpClient       *http.Client
	cache            cache.Cache
	logger           logger.Logger
}

func NewBotAcaxClient(cfg config.BotAcaxConfig, httpClient *http.Client, c cache.Cache, l logger.Logger) *BotAcaxClient {
	return &BotAcaxClient{
		apiKey:           cfg.APIKey,
		userInfoEndpoint: resolveEndpoint(cfg.BaseURL, cfg.UserInfoEndpoint),
		tiktokEndpoint:   resolveEndpoint(cfg.BaseURL, cfg.TikTokEndpoint),
		httpClient:       httpClient,
		cache:            c,
		logger:           l.WithField("component", "botacax"),
	}
}

func (c *BotAcaxClient) UserInfoEnabled() bool {
	return c.apiKey != "" && c.userInfoEndpoint != ""
}

func (c *BotAcaxClient) TikTokEnabled() bool {
	return c.apiKey != "" && c.tiktokEndpoint != ""
}

func (c *BotAcaxClient) UserInfo(ctx context.Context, telegramID int64) (*BotAcaxUser, error) {
	if !c.UserInfoEnabled() {
		return nil, ErrBotAcaxNotConfigured
	}

	key := cache.Key("botacax:user", telegramID)
	var user BotAcaxUser
	if c.cache != nil && cache.GetJSON(c.cache, key, &user) {
		return &user, nil
	}

	ctx, cancel := context.WithTimeout(ctx, botAcaxUserInfoTimeout)
	defer cancel()

	endpoint, err := url.Parse(c.userInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid userinfo endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("telegram_id", strconv.FormatInt(telegramID, 10))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := cache.SetJSON(c.cache, key, user, botAcaxUserInfoTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache user info")
		}
	}
	return &user, nil
}

func (c *BotAcaxClient) TikTok(ctx context.Context, videoURL string) (*TikTokVideo, error) {
	if !c.TikTokEnabled() {
		return nil, ErrBotAcaxNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, botAcaxTikTokTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"url": videoURL})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tiktokEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var video TikTokVideo
	if err := c.do(req, &video); err != nil {
		return nil, err
	}
	if video.DownloadURL() == "" {
		return nil, ErrBotAcaxNoData
	}
	return &video, nil
}

func (c *BotAcaxClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	l := c.logger.WithFields(logger.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
	})
	l.Debug("BotAcax request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("botacax request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBotAcaxBody))
	if err != nil {
		return fmt.Errorf("failed to read botacax response: %w", err)
	}

	var envelope botAcaxEnvelope
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= http.StatusBadRequest {
		l.WithField("status", resp.StatusCode).Warn("BotAcax returned error status")
		return &BotAcaxError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode botacax response: %w", decodeErr)
	}
	if envelope.Status != botAcaxStatusSuccess {
		return &BotAcaxError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return ErrBotAcaxNoData
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode botacax data: %w", err)
	}
	return nil
}

// resolveEndpoint joins a relative endpoint onto base. Absolute endpoints are
// returned as they are.
func resolveEndpoint(base, endpoint string) string {
	if endpoint == "" {
		return ""
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if base == "" {
		return ""
	}
	joined, err := url.JoinPath(base, endpoint)
	if err != nil {
		return ""
	}
	return joined
}
