package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const (
	ownerID int64 = 1
	userID  int64 = 2
	chatID  int64 = 100
)

type fakeCommand struct {
	name      string
	aliases   []string
	access    commands.Access
	private   bool
	sensitive bool
	err       error

	mu      sync.Mutex
	handled []telegram.Update
}

func (f *fakeCommand) Name() string                                   { return f.name }
func (f *fakeCommand) Aliases() []string                              { return f.aliases }
func (f *fakeCommand) Access() commands.Access                        { return f.access }
func (f *fakeCommand) PrivateOnly() bool                              { return f.private }
func (f *fakeCommand) Sensitive() bool                                { return f.sensitive }
func (f *fakeCommand) GetQueueConfig() commands.QueueConfig           { return commands.QueueConfig{} }
func (f *fakeCommand) Execute(context.Context, telegram.Update) error { return nil }

func (f *fakeCommand) Handle(_ context.Context, update telegram.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, update)
	return f.err
}

func (f *fakeCommand) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handled)
}

type stubAccess struct{}

func (stubAccess) IsOwner(id int64) bool      { return id == ownerID }
func (stubAccess) IsAdmin(int64) bool         { return false }
func (stubAccess) IsPrivileged(id int64) bool { return id == ownerID }

type env struct {
	bot *Bot
	tg  *telegram.MockClient
	db  database.Database
	log *logger.TestLogger
}

func newEnv(t *testing.T, values map[string]any, cmds ...commands.Command) *env {
	t.Helper()
	l := logger.NewTestLogger()
	cfg, err := config.FromMap(values)
	require.NoError(t, err)
	db, err := database.Open(":memory:", l)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	loc, err := service.NewLocalizer("en")
	require.NoError(t, err)

	tg := telegram.NewMockClient(t)
	bot, err := NewBot(tg, nil, l, db, cfg, loc, stubAccess{})
	require.NoError(t, err)
	for _, cmd := range cmds {
		bot.RegisterCommand(cmd)
	}
	return &env{bot: bot, tg: tg, db: db, log: l}
}

func message(from int64, chatType, text string) telegram.Update {
	return tgbotapi.Update{
		UpdateID: 9,
		Message: &tgbotapi.Message{
			MessageID: 5,
			Text:      text,
			Chat:      tgbotapi.Chat{ID: chatID, Type: chatType},
			From:      &tgbotapi.User{ID: from, FirstName: "Ann", UserName: "ann", LanguageCode: "en"},
		},
	}
}

func (e *env) expectReply(contains string) {
	e.tg.EXPECT().Send(mock.MatchedBy(func(m telegram.MessageConfig) bool {
		msg, ok := m.(telegram.TextMessage)
		return ok && msg.ChatID == chatID && msg.ParseMode == telegram.ModeHTML && strings.Contains(msg.Text, contains)
	})).Return(&telegram.Message{MessageID: 6}, nil).Once()
}

func TestHandleUpdate_DispatchesCommandAndSavesUser(t *testing.T) {
	cmd := &fakeCommand{name: "check_number"}
	e := newEnv(t, nil, cmd)

	e.bot.handleUpdate(context.Background(), message(ownerID, telegram.ChatTypePrivate, "/check_number +15551234567"))
	e.bot.Wait()

	assert.Equal(t, 1, cmd.calls())
	user, err := e.db.GetUser(ownerID)
	require.NoError(t, err)
	assert.True(t, user.IsOwner)
	assert.Equal(t, "ann", user.Username)
	assert.False(t, user.LastInteraction.IsZero())
}

func TestHandleUpdate_Aliases(t *testing.T) {
	cmd := &fakeCommand{name: "tiktok_dl", aliases: []string{"tt"}}
	e := newEnv(t, nil, cmd)

	e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, "/tt https://vt.tiktok.com/x"))
	e.bot.Wait()

	assert.Equal(t, 1, cmd.calls())
}

func TestHandleUpdate_Ignored(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		text   string
	}{
		{"plain text", nil, "hello"},
		{"unknown command", nil, "/nope"},
		{"other bot", nil, "/check_number@otherbot +1"},
		{"not allowed", map[string]any{config.TELEGRAM_ALLOWED_USERS: []int64{ownerID}}, "/check_number +1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &fakeCommand{name: "check_number"}
			e := newEnv(t, tt.values, cmd)
			e.tg.EXPECT().Self().Return(telegram.User{UserName: "checkerbot"}).Maybe()

			e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, tt.text))
			e.bot.Wait()

			assert.Equal(t, 0, cmd.calls())
		})
	}
}

func TestHandleUpdate_AddressedToThisBot(t *testing.T) {
	cmd := &fakeCommand{name: "check_number"}
	e := newEnv(t, nil, cmd)
	e.tg.EXPECT().Self().Return(telegram.User{UserName: "CheckerBot"})

	e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, "/check_number@checkerbot +1"))
	e.bot.Wait()

	assert.Equal(t, 1, cmd.calls())
}

func TestHandleUpdate_PrivateOnly(t *testing.T) {
	cmd := &fakeCommand{name: "check_otp", private: true, sensitive: true}
	e := newEnv(t, nil, cmd)
	e.expectReply("private chat")

	e.bot.handleUpdate(context.Background(), message(userID, "group", "/check_otp 12345"))
	e.bot.Wait()

	assert.Equal(t, 0, cmd.calls())
}

func TestHandleUpdate_AdminOnly(t *testing.T) {
	cmd := &fakeCommand{name: "getuser", access: commands.AccessAdmin}
	e := newEnv(t, nil, cmd)
	e.expectReply("not allowed")

	e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, "/getuser 5"))
	e.bot.Wait()
	assert.Equal(t, 0, cmd.calls())

	e.bot.handleUpdate(context.Background(), message(ownerID, telegram.ChatTypePrivate, "/getuser 5"))
	e.bot.Wait()
	assert.Equal(t, 1, cmd.calls())
}

func TestHandleUpdate_Errors(t *testing.T) {
	t.Run("regular command shows the error", func(t *testing.T) {
		cmd := &fakeCommand{name: "song", err: errors.New("queue <full>")}
		e := newEnv(t, nil, cmd)
		e.expectReply("Error: queue &lt;full&gt;")

		e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, "/song x"))
		e.bot.Wait()
	})

	t.Run("sensitive command hides details", func(t *testing.T) {
		cmd := &fakeCommand{name: "check_a2f", sensitive: true, err: errors.New("secret detail")}
		e := newEnv(t, nil, cmd)
		e.expectReply("Something went wrong")

		e.bot.handleUpdate(context.Background(), message(userID, telegram.ChatTypePrivate, "/check_a2f hunter2"))
		e.bot.Wait()

		for _, entry := range e.log.GetEntries() {
			assert.NotContains(t, entry.Fields, "args")
			assert.NotContains(t, entry.Message, "hunter2")
		}
	})
}

func TestSetMyCommands_ListsUserCommands(t *testing.T) {
	e := newEnv(t, nil,
		&fakeCommand{name: "start"},
		&fakeCommand{name: "check_number"},
		&fakeCommand{name: "getuser", access: commands.AccessAdmin},
	)
	e.tg.EXPECT().Request(mock.MatchedBy(func(m telegram.MessageConfig) bool {
		cfg, ok := m.(telegram.SetCommandsConfig)
		return ok && assert.ObjectsAreEqual([]telegram.BotCommand{
			{Command: "check_number", Description: "Check whether a number is registered on Telegram"},
			{Command: "start", Description: "Show this help"},
		}, cfg.Commands)
	})).Return(&telegram.APIResponse{Ok: true}, nil)

	require.NoError(t, e.bot.SetMyCommands())
}

func TestAddressee(t *testing.T) {
	assert.Equal(t, "", addressee("/start"))
	assert.Equal(t, "bot", addressee("/start@bot"))
	assert.Equal(t, "bot", addressee("/start@bot arg@x"))
	assert.Equal(t, "", addressee("/start arg@x"))
}
