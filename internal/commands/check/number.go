package check

import (
	"context"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const NumberCommandName = "check_number"

type NumberCommand struct {
	stage
}

func NewNumber(di *di.Container) *NumberCommand {
	cmd := &NumberCommand{}
	cmd.stage = newStage(base.NewCommand(cmd, di), di, messages{
		usage:        "check_number_usage",
		progress:     "check_number_progress",
		precondition: "check_number_usage",
		failed:       "check_number_failed",
	})
	return cmd
}

func (c *NumberCommand) Name() string {
	return NumberCommandName
}

func (c *NumberCommand) Execute(ctx context.Context, update telegram.Update) error {
	phone := telegram.FirstArg(c.Args(update))
	return c.run(ctx, update,
		map[string]any{"Phone": phone},
		c.prober.CheckNumber,
		func(lang string, res *probe.Result) string {
			data := map[string]any{"Phone": res.PhoneNumber}
			if res.Outcome == probe.OutcomeFound {
				return c.T(lang, "check_number_found", data)
			}
			return c.T(lang, "check_number_not_found", data)
		},
	)
}
