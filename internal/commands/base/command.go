package base

import (
	"context"
	"fmt"
	"time"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/queue"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

type Command struct {
	command   commands.Command
	Tg        telegram.Client
	Logger    logger.Logger
	Cfg       *config.Config
	Queue     *queue.Queue
	Localizer *service.Localizer
	DB        database.Database
}

func NewCommand(cmd commands.Command, di *di.Container) *Command {
	return &Command{
		command:   cmd,
		Tg:        di.BotClient,
		Logger:    di.Logger,
		Cfg:       di.Cfg,
		Queue:     di.Queue,
		Localizer: di.Localizer,
		DB:        di.DB,
	}
}

func (c *Command) Name() string {
	return ""
}

func (c *Command) Aliases() []string {
	return []string{}
}

func (c *Command) Access() commands.Access {
	return commands.AccessUser
}

func (c *Command) PrivateOnly() bool {
	return false
}

func (c *Command) Sensitive() bool {
	return false
}

// Handle runs sensitive commands in memory, everything else goes through the
// persistent queue when it is enabled for the command.
func (c *Command) Handle(ctx context.Context, update telegram.Update) error {
	cfg := c.command.GetQueueConfig()
	switch {
	case c.command.Sensitive():
		return c.Queue.Run(ctx, c.command, update)
	case cfg.Enabled:
		retryDelayMillis := int64(cfg.RetryDelay / time.Millisecond)
		return c.Queue.Add(c.command, update, cfg.MaxRetries, retryDelayMillis)
	default:
		return c.command.Execute(ctx, update)
	}
}

func (c *Command) GetQueueConfig() commands.QueueConfig {
	cfg := c.Cfg.GetCommandConfig(c.command.Name())
	return commands.QueueConfig{
		Enabled:    cfg.Queue.Enabled,
		MaxRetries: cfg.Queue.MaxRetries,
		RetryDelay: cfg.Queue.RetryDelay,
		Timeout:    cfg.Queue.Timeout,
		Throttle: commands.ThrottleConfig{
			Concurrency: cfg.Queue.Throttle.Concurrency,
			Period:      cfg.Queue.Throttle.Period,
			Requests:    cfg.Queue.Throttle.Requests,
		},
	}
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	return nil
}

// T localizes messageID for lang. String and error values of data are HTML
// escaped, the templates themselves carry the markup.
func (c *Command) T(lang, messageID string, data map[string]any) string {
	if len(data) == 0 {
		return c.Localizer.LocalizeFor(lang, messageID, nil)
	}
	escaped := make(map[string]any, len(data))
	for k, v := range data {
		switch v := v.(type) {
		case string:
			escaped[k] = telegram.EscapeHTML(v)
		case error:
			escaped[k] = telegram.EscapeHTML(v.Error())
		case fmt.Stringer:
			escaped[k] = telegram.EscapeHTML(v.String())
		default:
			escaped[k] = v
		}
	}
	return c.Localizer.LocalizeFor(lang, messageID, escaped)
}

// Args returns the raw text after the command.
func (c *Command) Args(update telegram.Update) string {
	if update.Message == nil {
		return ""
	}
	_, args := telegram.CommandArgs(update.Message.Text)
	return args
}

func (c *Command) Lang(update telegram.Update) string {
	if update.Message == nil || update.Message.From == nil {
		return ""
	}
	return update.Message.From.LanguageCode
}

func (c *Command) SenderID(update telegram.Update) int64 {
	if update.Message == nil || update.Message.From == nil {
		return 0
	}
	return update.Message.From.ID
}

// Reply answers the command message with HTML text.
func (c *Command) Reply(update telegram.Update, text string) (*telegram.Message, error) {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, update.Message.MessageID)
	msg.ParseMode = telegram.ModeHTML
	sent, err := c.Tg.Send(msg)
	if err != nil {
		c.Logger.WithError(err).WithField("command", c.command.Name()).Error("Failed to send message")
		return nil, err
	}
	return sent, nil
}

// ReplyPlain answers without a parse mode, for text the bot did not write.
func (c *Command) ReplyPlain(update telegram.Update, text string) (*telegram.Message, error) {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, update.Message.MessageID)
	sent, err := c.Tg.Send(msg)
	if err != nil {
		c.Logger.WithError(err).WithField("command", c.command.Name()).Error("Failed to send message")
		return nil, err
	}
	return sent, nil
}

// Finish replaces the progress message with text, or replies when no
// progress message was sent.
func (c *Command) Finish(update telegram.Update, progress *telegram.Message, text string) error {
	if progress == nil {
		_, err := c.Reply(update, text)
		return err
	}
	edit := telegram.NewEditMessageText(progress.Chat.ID, progress.MessageID, text)
	edit.ParseMode = telegram.ModeHTML
	if _, err := c.Tg.Request(edit); err != nil {
		c.Logger.WithError(err).WithField("command", c.command.Name()).Warn("Failed to edit progress message, replying instead")
		_, err = c.Reply(update, text)
		return err
	}
	return nil
}

// DeleteProgress removes a progress message that is no longer needed.
func (c *Command) DeleteProgress(progress *telegram.Message) {
	if progress == nil {
		return
	}
	if _, err := c.Tg.DeleteMessage(progress.Chat.ID, progress.MessageID); err != nil {
		c.Logger.WithError(err).Debug("Failed to delete progress message")
	}
}
