package telegram

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/muratoffalex/tgchecker/internal/logger"
)

var retryAfterRe = regexp.MustCompile(`retry after (\d+)`)

type BotClient struct {
	bot    *tgbotapi.BotAPI
	logger logger.Logger
}

func NewBotClient(bot *tgbotapi.BotAPI, logger logger.Logger) Client {
	return &BotClient{
		bot:    bot,
		logger: logger,
	}
}

func (c *BotClient) Send(msg MessageConfig) (*Message, error) {
	sentMsg, err := c.bot.Send(msg.ToChattable())
	if err != nil {
		return nil, err
	}
	return adaptMessage(&sentMsg), nil
}

func (c *BotClient) SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error) {
	maxRetries := 1
	if maxRetryCount > 0 {
		maxRetries = maxRetryCount
	}
	retryCount := 0

	for {
		sentMsg, err := c.bot.Send(msg.ToChattable())
		if err == nil {
			return adaptMessage(&sentMsg), nil
		}

		if !strings.Contains(err.Error(), "Too Many Requests: retry after") {
			return nil, err
		}

		retryAfter := extractRetryAfter(err.Error())
		waitTime := time.Duration(retryAfter+2) * time.Second

		c.logger.WithFields(logger.Fields{
			"retry_after": retryAfter,
			"wait_time":   waitTime,
			"attempt":     retryCount + 1,
		}).Warn("Rate limit hit, waiting before retry")

		retryCount++
		if retryCount > maxRetries {
			c.logger.Error("Max retries reached for rate limited message")
			return nil, err
		}
		time.Sleep(waitTime)
	}
}

func (c *BotClient) GetUpdatesChan(config UpdateConfig) <-chan Update {
	return c.bot.GetUpdatesChan(tgbotapi.UpdateConfig{
		Offset:  config.Offset,
		Limit:   config.Limit,
		Timeout: config.Timeout,
	})
}

func (c *BotClient) StopReceivingUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *BotClient) Request(message MessageConfig) (*APIResponse, error) {
	return c.bot.Request(message.ToChattable())
}

func (c *BotClient) SendChatAction(chatID int64, action ChatAction) error {
	_, err := c.bot.Request(tgbotapi.NewChatAction(chatID, string(action)))
	return err
}

func (c *BotClient) DeleteMessage(chatID int64, messageID int) (*APIResponse, error) {
	return c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
}

func (c *BotClient) Self() User {
	return AdaptUser(&c.bot.Self)
}

func extractRetryAfter(errMsg string) int {
	matches := retryAfterRe.FindStringSubmatch(errMsg)
	if len(matches) > 1 {
		retryAfter, _ := strconv.Atoi(matches[1])
		return retryAfter
	}
	return 0
}

func adaptMessage(msg *tgbotapi.Message) *Message {
	if msg == nil {
		return nil
	}

	return &Message{
		MessageID: msg.MessageID,
		Chat:      adaptChat(&msg.Chat),
		Text:      msg.Text,
		From:      AdaptUser(msg.From),
		ReplyTo:   adaptMessage(msg.ReplyToMessage),
		Command:   msg.Command(),
	}
}

func AdaptUser(user *tgbotapi.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:           int64(user.ID),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		UserName:     user.UserName,
		LanguageCode: user.LanguageCode,
		IsBot:        user.IsBot,
	}
}

func adaptChat(chat *tgbotapi.Chat) Chat {
	if chat == nil {
		return Chat{}
	}
	return Chat{
		ID:   chat.ID,
		Type: chat.Type,
	}
}
