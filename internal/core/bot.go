package core

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/queue"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

// users are re-saved at most this often when nothing else changed
const lastInteractionResolution = 5 * time.Minute

type privileges interface {
	IsOwner(userID int64) bool
	IsAdmin(userID int64) bool
	IsPrivileged(userID int64) bool
}

type Bot struct {
	commands  map[string]commands.Command
	logger    logger.Logger
	queue     *queue.Queue
	db        database.Database
	tg        telegram.Client
	cfg       *config.Config
	localizer *service.Localizer
	access    privileges
	running   sync.WaitGroup
}

func NewBot(
	tg telegram.Client,
	queue *queue.Queue,
	logger logger.Logger,
	db database.Database,
	cfg *config.Config,
	localizer *service.Localizer,
	access privileges,
) (*Bot, error) {
	return &Bot{
		commands:  make(map[string]commands.Command),
		tg:        tg,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
		db:        db,
		localizer: localizer,
		access:    access,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	u := telegram.UpdateConfig{Offset: 0, Timeout: 60}

	if b.queue != nil {
		go b.queue.Start(ctx, b.commands)
	}
	if err := b.SetMyCommands(); err != nil {
		b.logger.WithError(err).Warn("Failed to publish command list")
	}

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info("Bot started")

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			b.running.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.running.Wait()
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Wait blocks until every dispatched command returned.
func (b *Bot) Wait() {
	b.running.Wait()
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	b.logger.WithField("update_id", update.UpdateID).Trace("Received update")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !b.cfg.Telegram().IsAllowed(msg.From.ID, msg.Chat.ID) {
		b.logger.WithFields(logger.Fields{
			"user_id":  msg.From.ID,
			"username": msg.From.UserName,
			"chat_id":  msg.Chat.ID,
		}).Warn("Unauthorized access attempt")
		return
	}

	b.saveUser(update)

	if msg.ForwardOrigin != nil || !isCommand(msg.Text) {
		return
	}
	if target := addressee(msg.Text); target != "" && !strings.EqualFold(target, b.tg.Self().UserName) {
		return // skip commands addressed to other bots
	}

	name, _ := telegram.CommandArgs(msg.Text)
	cmd := b.findCommand(name)
	if cmd == nil {
		return
	}

	lang := msg.From.LanguageCode
	fields := logger.Fields{
		"command":  cmd.Name(),
		"user_id":  msg.From.ID,
		"username": msg.From.UserName,
	}
	if !cmd.Sensitive() {
		fields["args"] = msg.CommandArguments()
	}
	log := b.logger.WithFields(fields)

	if cmd.PrivateOnly() && msg.Chat.Type != telegram.ChatTypePrivate {
		log.Debug("Private command used in group")
		b.reply(msg.Chat.ID, msg.MessageID, b.localizer.LocalizeFor(lang, "private_only", nil))
		return
	}
	if cmd.Access() == commands.AccessAdmin && (b.access == nil || !b.access.IsPrivileged(msg.From.ID)) {
		log.Warn("Admin command denied")
		b.reply(msg.Chat.ID, msg.MessageID, b.localizer.LocalizeFor(lang, "no_permission", nil))
		return
	}

	log.Info("Handling command")

	b.running.Add(1)
	go func(cmd commands.Command, update telegram.Update) {
		defer b.running.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Command panicked")
				b.sendErrorMessage(nil, update, lang)
			}
		}()
		if err := cmd.Handle(ctx, update); err != nil {
			log.WithError(err).Error("Failed to handle command")
			var detail error
			if !cmd.Sensitive() {
				detail = err
			}
			b.sendErrorMessage(detail, update, lang)
		}
	}(cmd, update)
}

func (b *Bot) findCommand(name string) commands.Command {
	if name == "" {
		return nil
	}
	if cmd, ok := b.commands[name]; ok {
		return cmd
	}
	for _, c := range b.commands {
		if slices.Contains(c.Aliases(), name) {
			return c
		}
	}
	return nil
}

// saveUser upserts the sender with the current owner and admin flags.
func (b *Bot) saveUser(update telegram.Update) {
	from := update.Message.From
	user := database.User{
		ID:        from.ID,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.UserName,
	}
	if b.access != nil {
		user.IsOwner = b.access.IsOwner(from.ID)
		user.IsAdmin = b.access.IsAdmin(from.ID)
	}

	storedUser, err := b.db.GetUser(from.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		b.logger.WithField("user_id", user.ID).Info("Store new user")
	case err != nil:
		b.logger.WithError(err).Error("Error get user by id")
		return
	case user.Equal(*storedUser) && time.Since(storedUser.LastInteraction) < lastInteractionResolution:
		return
	}

	if err := b.db.SaveUser(user); err != nil {
		b.logger.WithError(err).WithField("user_id", user.ID).Error("Error save user")
	}
}

func (b *Bot) RegisterCommand(cmd commands.Command) {
	if cmd == nil {
		b.logger.Error("Attempting to register nil command")
		return
	}

	name := cmd.Name()
	if name == "" {
		b.logger.Error("Attempting to register command with empty name")
		return
	}

	b.logger.WithFields(logger.Fields{
		"command": name,
	}).Debug("Registering command")

	b.commands[name] = cmd
}

// SetMyCommands publishes the user level commands in the Telegram menu.
func (b *Bot) SetMyCommands() error {
	names := make([]string, 0, len(b.commands))
	for name, cmd := range b.commands {
		if cmd.Access() == commands.AccessUser {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	cfg := telegram.SetCommandsConfig{}
	for _, name := range names {
		cfg.Commands = append(cfg.Commands, telegram.BotCommand{
			Command:     name,
			Description: b.localizer.Localize("cmd_"+name, nil),
		})
	}
	_, err := b.tg.Request(cfg)
	return err
}

func (b *Bot) GetCommands() map[string]commands.Command {
	return b.commands
}

func (b *Bot) sendErrorMessage(err error, update telegram.Update, lang string) {
	text := b.localizer.LocalizeFor(lang, "unexpected_error", nil)
	if err != nil {
		text = b.localizer.LocalizeFor(lang, "error", map[string]any{
			"Error": telegram.EscapeHTML(err.Error()),
		})
	}
	b.reply(update.Message.Chat.ID, update.Message.MessageID, text)
}

func (b *Bot) reply(chatID int64, replyTo int, text string) {
	msg := telegram.NewMessage(chatID, text, replyTo)
	msg.ParseMode = telegram.ModeHTML
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.WithError(err).Error("Failed to send message")
	}
}

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// addressee returns the bot name of "/cmd@bot", or "" when none is given.
func addressee(text string) string {
	head := strings.TrimSpace(text)
	if i := strings.IndexAny(head, " \t\n"); i >= 0 {
		head = head[:i]
	}
	_, bot, _ := strings.Cut(head, "@")
	return bot
}
