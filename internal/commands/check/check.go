package check

import (
	"context"
	"errors"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

// Prober runs the three login stages.
type Prober interface {
	CheckNumber(ctx context.Context, requesterID int64, phone string) (*probe.Result, error)
	CheckCode(ctx context.Context, requesterID int64, code string) (*probe.Result, error)
	CheckSecondFactor(ctx context.Context, requesterID int64, secret string) (*probe.Result, error)
}

// messages holds the locale keys of one stage.
type messages struct {
	usage        string
	progress     string
	precondition string
	failed       string
}

// stage is the part shared by the three check commands.
type stage struct {
	*base.Command
	prober Prober
	keys   messages
}

func newStage(cmd *base.Command, di *di.Container, keys messages) stage {
	s := stage{Command: cmd, keys: keys}
	if di.Probe != nil {
		s.prober = di.Probe
	}
	return s
}

func (s *stage) PrivateOnly() bool {
	return true
}

// Sensitive keeps phone numbers, codes and passwords out of the task table
// and the logs.
func (s *stage) Sensitive() bool {
	return true
}

// run validates the argument, shows a progress message, executes check and
// turns its outcome into a reply.
func (s *stage) run(
	ctx context.Context,
	update telegram.Update,
	progressData map[string]any,
	check func(ctx context.Context, requesterID int64, arg string) (*probe.Result, error),
	render func(lang string, res *probe.Result) string,
) error {
	lang := s.Lang(update)
	arg := telegram.FirstArg(s.Args(update))
	if arg == "" {
		_, err := s.Reply(update, s.T(lang, s.keys.usage, nil))
		return err
	}

	progress, _ := s.Reply(update, s.T(lang, s.keys.progress, progressData))

	res, err := check(ctx, s.SenderID(update), arg)
	if err != nil {
		return s.fail(update, progress, lang, err)
	}
	return s.Finish(update, progress, render(lang, res))
}

func (s *stage) fail(update telegram.Update, progress *telegram.Message, lang string, err error) error {
	var (
		precondition *probe.PreconditionError
		gatewayFault *probe.GatewayFault
		storeFault   *probe.StoreFault
	)
	log := s.Logger.WithFields(logger.Fields{
		"requester_id": s.SenderID(update),
		"update_id":    update.UpdateID,
	})

	switch {
	case errors.Is(err, probe.ErrUserInput):
		return s.Finish(update, progress, s.T(lang, s.keys.usage, nil))
	case errors.Is(err, probe.ErrBusy):
		return s.Finish(update, progress, s.T(lang, "check_in_progress", nil))
	case errors.As(err, &precondition):
		return s.Finish(update, progress, s.T(lang, s.keys.precondition, nil))
	case errors.Is(err, probe.ErrGatewayNotConfigured):
		return s.Finish(update, progress, s.T(lang, "gateway_not_configured", nil))
	case errors.As(err, &gatewayFault):
		log.WithError(err).Warn("Gateway fault")
		return s.Finish(update, progress, s.T(lang, s.keys.failed, map[string]any{
			"Error": gatewayFault.Err,
		}))
	case errors.As(err, &storeFault):
		log.WithError(err).Error("Probe store fault")
		return s.Finish(update, progress, s.T(lang, "store_failed", nil))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("Check interrupted")
		return s.Finish(update, progress, s.T(lang, "check_cancelled", nil))
	default:
		s.DeleteProgress(progress)
		return err
	}
}
