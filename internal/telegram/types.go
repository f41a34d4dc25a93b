package telegram

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

type ParseMode = string

const ModeHTML = "HTML"

type (
	Update          = tgbotapi.Update
	FileURL         = tgbotapi.FileURL
	FilePath        = tgbotapi.FilePath
	MessageEntity   = tgbotapi.MessageEntity
	Chattable       = tgbotapi.Chattable
	RequestFileData = tgbotapi.RequestFileData
	APIResponse     = tgbotapi.APIResponse
)

const (
	ChatTypePrivate = "private"
)

type Message struct {
	MessageID int
	Chat      Chat
	Text      string
	From      User
	ReplyTo   *Message
	Command   string
}

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	UserName     string
	LanguageCode string
	IsBot        bool
}

type Chat struct {
	ID   int64
	Type string
}

func (c Chat) IsPrivate() bool {
	return c.Type == ChatTypePrivate
}

type MessageConfig interface {
	ToChattable() tgbotapi.Chattable
}

type TextMessage struct {
	ChatID              int64
	Text                string
	ReplyTo             int
	LinkPreviewDisabled bool
	ParseMode           ParseMode
}

func NewMessage(chatID int64, text string, replyTo int) TextMessage {
	return TextMessage{
		ChatID:              chatID,
		Text:                text,
		LinkPreviewDisabled: true,
		ReplyTo:             replyTo,
	}
}

func (m TextMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	msg.LinkPreviewOptions.IsDisabled = m.LinkPreviewDisabled
	return msg
}

type EditMessageTextConfig struct {
	ChatID              int64
	MessageID           int
	Text                string
	ParseMode           string
	LinkPreviewDisabled bool
}

func NewEditMessageText(chatID int64, messageID int, text string) EditMessageTextConfig {
	return EditMessageTextConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		Text:                text,
		LinkPreviewDisabled: true,
	}
}

func (m EditMessageTextConfig) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewEditMessageText(m.ChatID, m.MessageID, m.Text)
	msg.LinkPreviewOptions.IsDisabled = m.LinkPreviewDisabled
	msg.ParseMode = m.ParseMode
	return msg
}

type VideoMessage struct {
	ChatID    int64
	Video     RequestFileData
	Caption   string
	ReplyTo   int
	ParseMode string
	Duration  int
}

func NewVideoMessage(chatID int64, video RequestFileData, caption string, replyTo int) VideoMessage {
	return VideoMessage{
		ChatID:  chatID,
		Video:   video,
		Caption: caption,
		ReplyTo: replyTo,
	}
}

func (m VideoMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewVideo(m.ChatID, m.Video)
	msg.Caption = m.Caption
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	msg.Duration = m.Duration
	msg.SupportsStreaming = true
	return msg
}

type AudioMessage struct {
	ChatID    int64
	Audio     RequestFileData
	Caption   string
	Title     string
	Performer string
	Duration  int
	ReplyTo   int
	ParseMode string
}

func NewAudioMessage(chatID int64, audio RequestFileData, caption string, replyTo int) AudioMessage {
	return AudioMessage{
		ChatID:  chatID,
		Audio:   audio,
		Caption: caption,
		ReplyTo: replyTo,
	}
}

func (m AudioMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewAudio(m.ChatID, m.Audio)
	msg.Caption = m.Caption
	msg.Title = m.Title
	msg.Performer = m.Performer
	msg.Duration = m.Duration
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	return msg
}

type BotCommand struct {
	Command     string
	Description string
}

type SetCommandsConfig struct {
	Commands []BotCommand
}

func (c SetCommandsConfig) ToChattable() tgbotapi.Chattable {
	commands := make([]tgbotapi.BotCommand, 0, len(c.Commands))
	for _, cmd := range c.Commands {
		commands = append(commands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}
	return tgbotapi.NewSetMyCommands(commands...)
}

type UpdateConfig struct {
	Offset  int
	Limit   int
	Timeout int
}

type ChatAction string

const (
	ActionTyping      ChatAction = "typing"
	ActionUploadVideo ChatAction = "upload_video"
	ActionUploadVoice ChatAction = "upload_voice"
)

type Client interface {
	Send(msg MessageConfig) (*Message, error)
	SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error)
	DeleteMessage(chatID int64, messageID int) (*APIResponse, error)
	GetUpdatesChan(config UpdateConfig) <-chan Update
	StopReceivingUpdates()
	Request(message MessageConfig) (*APIResponse, error)
	SendChatAction(chatID int64, action ChatAction) error
	Self() User
}
