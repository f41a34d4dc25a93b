package ask

import (
	"context"
	"errors"

	"github.com/muratoffalex/tgchecker/internal/ai"
	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const commandPrefix = "ask_"

var providerTitles = map[string]string{
	ai.ProviderOpenAI: "OpenAI",
	ai.ProviderGemini: "Gemini",
}

type asker interface {
	Ask(ctx context.Context, name, prompt string) (string, error)
}

// Command forwards a one-shot question to a single provider.
type Command struct {
	*base.Command
	provider string
	ai       asker
}

func New(di *di.Container, provider string) *Command {
	cmd := &Command{provider: provider}
	cmd.Command = base.NewCommand(cmd, di)
	if di.AI != nil {
		cmd.ai = di.AI
	}
	return cmd
}

func CommandName(provider string) string {
	return commandPrefix + provider
}

func (c *Command) Name() string {
	return CommandName(c.provider)
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	lang := c.Lang(update)
	title := providerTitles[c.provider]
	if title == "" {
		title = c.provider
	}

	prompt := c.Args(update)
	if prompt == "" {
		_, err := c.Reply(update, c.T(lang, "ask_usage", map[string]any{"Command": c.Name()}))
		return err
	}
	if c.ai == nil {
		_, err := c.Reply(update, c.T(lang, "ask_not_configured", map[string]any{"Provider": title}))
		return err
	}

	if err := c.Tg.SendChatAction(update.Message.Chat.ID, telegram.ActionTyping); err != nil {
		c.Logger.WithError(err).Debug("Failed to send chat action")
	}

	answer, err := c.ai.Ask(ctx, c.provider, prompt)
	switch {
	case err == nil:
		_, err = c.ReplyPlain(update, answer)
		return err
	case errors.Is(err, ai.ErrProviderNotFound):
		_, err = c.Reply(update, c.T(lang, "ask_not_configured", map[string]any{"Provider": title}))
		return err
	case errors.Is(err, ai.ErrEmptyAnswer):
		_, err = c.Reply(update, c.T(lang, "ask_empty", map[string]any{"Provider": title}))
		return err
	default:
		c.Logger.WithError(err).WithFields(logger.Fields{
			"provider":  c.provider,
			"update_id": update.UpdateID,
		}).Error("Provider request failed")
		_, err = c.Reply(update, c.T(lang, "ask_failed", map[string]any{
			"Provider": title,
			"Error":    err,
		}))
		return err
	}
}
