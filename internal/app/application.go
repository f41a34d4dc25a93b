package app

import (
	"context"
	"flag"
	"sort"
	"time"

	"github.com/muratoffalex/tgchecker/internal/ai"
	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/commands/ask"
	"github.com/muratoffalex/tgchecker/internal/commands/check"
	"github.com/muratoffalex/tgchecker/internal/commands/getuser"
	"github.com/muratoffalex/tgchecker/internal/commands/start"
	"github.com/muratoffalex/tgchecker/internal/commands/tiktok"
	"github.com/muratoffalex/tgchecker/internal/commands/youtube"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/core"
	"github.com/muratoffalex/tgchecker/internal/logger"
	yt "github.com/muratoffalex/tgchecker/internal/service/youtube"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Logger logger.Logger
	cfg    *config.Config
	bot    *core.Bot
	di     *di.Container
	ctx    context.Context
	cancel context.CancelFunc
}

func New(ctx context.Context) (*Application, error) {
	flag.Parse()

	ctx, cancel := context.WithCancel(ctx)
	cfg, err := config.Load()
	if err != nil {
		cancel()
		return nil, err
	}

	di, err := di.NewContainer(cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	di.Logger.Info("DI Container created")

	botInstance, err := core.NewBot(
		di.BotClient,
		di.Queue,
		di.Logger,
		di.DB,
		cfg,
		di.Localizer,
		di.Access,
	)
	if err != nil {
		di.Logger.Fatal(err)
	}
	di.Logger.Info("Bot instance created")

	app := &Application{
		cfg:    cfg,
		bot:    botInstance,
		di:     di,
		Logger: di.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	app.registerCommands()

	return app, nil
}

func (a *Application) Start() error {
	a.Logger.Info("Starting application")
	a.StartCleaner()
	return a.bot.Start(a.ctx)
}

func (a *Application) enabled(name string) bool {
	return a.cfg.GetCommandConfig(name).Enabled
}

func (a *Application) registerCommands() {
	if a.enabled(check.NumberCommandName) {
		a.bot.RegisterCommand(check.NewNumber(a.di))
	}
	if a.enabled(check.OTPCommandName) {
		a.bot.RegisterCommand(check.NewOTP(a.di))
	}
	if a.enabled(check.A2FCommandName) {
		a.bot.RegisterCommand(check.NewA2F(a.di))
	}
	if a.enabled(start.CommandName) {
		a.bot.RegisterCommand(start.New(a.di, a.listCommands))
	}
	if a.enabled(getuser.CommandName) {
		a.bot.RegisterCommand(getuser.New(a.di))
	}
	for _, provider := range []string{ai.ProviderOpenAI, ai.ProviderGemini} {
		if a.enabled(ask.CommandName(provider)) {
			a.bot.RegisterCommand(ask.New(a.di, provider))
		}
	}
	if a.enabled(tiktok.CommandName) {
		if !a.cfg.BotAcax().TikTokEnabled() {
			a.Logger.WithField("command", tiktok.CommandName).Warn("BotAcax key not set, downloads will be refused")
		}
		a.bot.RegisterCommand(tiktok.New(a.di))
	}
	if a.enabled(youtube.SongCommandName) {
		a.bot.RegisterCommand(youtube.New(a.di, yt.KindAudio))
	}
	if a.enabled(youtube.VSongCommandName) {
		a.bot.RegisterCommand(youtube.New(a.di, yt.KindVideo))
	}
	a.Logger.WithField("commands", len(a.bot.GetCommands())).Info("Commands registered")
}

// listCommands returns the registered commands ordered by name.
func (a *Application) listCommands() []commands.Command {
	registered := a.bot.GetCommands()
	list := make([]commands.Command, 0, len(registered))
	for _, cmd := range registered {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// WaitForShutdown blocks until the context is cancelled, then waits for
// running commands and releases the container.
func (a *Application) WaitForShutdown() {
	<-a.ctx.Done()
	a.cancel()
	a.bot.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.di.Close(ctx)
	a.Logger.Info("Application stopped")
}

func (a *Application) StartCleaner() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				if err := a.di.DB.PurgeOldTasks(a.cfg.Global().TaskRetentionDays); err != nil {
					a.Logger.WithError(err).Error("Failed to purge old tasks")
				}
				if err := a.di.Cache.PurgeExpired(a.ctx); err != nil {
					a.Logger.WithError(err).Error("Failed to purge expired cache entries")
				}
			}
		}
	}()
}
