package check

import (
	"context"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const A2FCommandName = "check_a2f"

type A2FCommand struct {
	stage
}

func NewA2F(di *di.Container) *A2FCommand {
	cmd := &A2FCommand{}
	cmd.stage = newStage(base.NewCommand(cmd, di), di, messages{
		usage:        "check_a2f_usage",
		progress:     "check_a2f_progress",
		precondition: "check_a2f_precondition",
		failed:       "check_a2f_failed",
	})
	return cmd
}

func (c *A2FCommand) Name() string {
	return A2FCommandName
}

func (c *A2FCommand) Execute(ctx context.Context, update telegram.Update) error {
	// the password should not stay in the chat history
	if telegram.FirstArg(c.Args(update)) != "" {
		defer c.deletePassword(update)
	}

	return c.run(ctx, update, nil, c.prober.CheckSecondFactor, func(lang string, res *probe.Result) string {
		data := map[string]any{"Phone": res.PhoneNumber}
		if res.Outcome == probe.OutcomeValid {
			return c.T(lang, "check_a2f_valid", data)
		}
		return c.T(lang, "check_a2f_invalid", data)
	})
}

func (c *A2FCommand) deletePassword(update telegram.Update) {
	if _, err := c.Tg.DeleteMessage(update.Message.Chat.ID, update.Message.MessageID); err != nil {
		c.Logger.WithError(err).Debug("Failed to delete password message")
	}
}
