package check

import (
	"context"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const OTPCommandName = "check_otp"

type OTPCommand struct {
	stage
}

func NewOTP(di *di.Container) *OTPCommand {
	cmd := &OTPCommand{}
	cmd.stage = newStage(base.NewCommand(cmd, di), di, messages{
		usage:        "check_otp_usage",
		progress:     "check_otp_progress",
		precondition: "check_otp_precondition",
		failed:       "check_otp_failed",
	})
	return cmd
}

func (c *OTPCommand) Name() string {
	return OTPCommandName
}

func (c *OTPCommand) Execute(ctx context.Context, update telegram.Update) error {
	return c.run(ctx, update, nil, c.prober.CheckCode, func(lang string, res *probe.Result) string {
		data := map[string]any{"Phone": res.PhoneNumber}
		switch res.Outcome {
		case probe.OutcomeValid:
			return c.T(lang, "check_otp_valid", data)
		case probe.OutcomeValidNeedsSecondFactor:
			return c.T(lang, "check_otp_needs_a2f", data)
		case probe.OutcomeExpired:
			return c.T(lang, "check_otp_expired", data)
		default:
			return c.T(lang, "check_otp_invalid", data)
		}
	})
}
