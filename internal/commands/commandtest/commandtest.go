// Package commandtest builds containers and updates for command tests.
package commandtest

import (
	"strings"
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const (
	ChatID    int64 = 4200
	UserID    int64 = 77
	MessageID       = 10
)

type Env struct {
	Container *di.Container
	Tg        *telegram.MockClient
	Log       *logger.TestLogger
}

// NewEnv returns a container with a mocked bot client, a recording logger
// and the real localizer. values override config defaults.
func NewEnv(t *testing.T, values map[string]any) *Env {
	t.Helper()

	cfg, err := config.FromMap(values)
	require.NoError(t, err)
	loc, err := service.NewLocalizer("en")
	require.NoError(t, err)

	tg := telegram.NewMockClient(t)
	l := logger.NewTestLogger()
	return &Env{
		Container: &di.Container{
			BotClient: tg,
			Logger:    l,
			Cfg:       cfg,
			Localizer: loc,
		},
		Tg:  tg,
		Log: l,
	}
}

// Update is a private chat message from UserID.
func Update(text string) telegram.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: MessageID,
			Text:      text,
			Chat:      tgbotapi.Chat{ID: ChatID, Type: telegram.ChatTypePrivate},
			From:      &tgbotapi.User{ID: UserID, FirstName: "Ann", LanguageCode: "en"},
		},
	}
}

// Sent is the message returned by the mocked Send.
func Sent() *telegram.Message {
	return &telegram.Message{
		MessageID: MessageID + 1,
		Chat:      telegram.Chat{ID: ChatID, Type: telegram.ChatTypePrivate},
	}
}

// ExpectReply expects one HTML reply whose text passes match.
func (e *Env) ExpectReply(match func(text string) bool) *telegram.MockClient_Send_Call {
	return e.Tg.EXPECT().Send(mock.MatchedBy(func(m telegram.MessageConfig) bool {
		msg, ok := m.(telegram.TextMessage)
		return ok && msg.ChatID == ChatID && match(msg.Text)
	})).Return(Sent(), nil)
}

// ExpectEdit expects the progress message to be replaced with matching text.
func (e *Env) ExpectEdit(match func(text string) bool) *telegram.MockClient_Request_Call {
	return e.Tg.EXPECT().Request(mock.MatchedBy(func(m telegram.MessageConfig) bool {
		msg, ok := m.(telegram.EditMessageTextConfig)
		return ok && msg.MessageID == MessageID+1 && msg.ParseMode == telegram.ModeHTML && match(msg.Text)
	})).Return(&telegram.APIResponse{Ok: true}, nil)
}

// Contains matches text containing every part.
func Contains(parts ...string) func(string) bool {
	return func(text string) bool {
		for _, p := range parts {
			if !strings.Contains(text, p) {
				return false
			}
		}
		return true
	}
}
