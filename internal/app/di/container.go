package di

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/muratoffalex/tgchecker/internal/ai"
	"github.com/muratoffalex/tgchecker/internal/cache"
	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/database/mongo"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/network"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/queue"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/service/cancel"
	"github.com/muratoffalex/tgchecker/internal/service/youtube"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

type Container struct {
	BotClient  telegram.Client
	TD         *service.TelegramAPI
	Logger     logger.Logger
	DB         database.Database
	Cache      *cache.Tiered
	Cfg        *config.Config
	Queue      *queue.Queue
	AI         *ai.Registry
	HttpClient *http.Client
	Localizer  *service.Localizer
	Access     *service.Access
	Guard      *cancel.Manager
	Probe      *probe.Flow
	BotAcax    *service.BotAcaxClient
	Downloader *youtube.Downloader

	closers []func(ctx context.Context) error
}

func NewContainer(cfg *config.Config) (*Container, error) {
	logCfg := cfg.Log()
	l := logger.NewLogrusLogger(&logCfg)
	db, err := database.NewSQLiteDB(cfg, l)
	if err != nil {
		return nil, err
	}

	c := cache.NewTiered(cache.NewMemoryCache(0), cache.NewDBCache(db), l)
	q := queue.NewQueue(db, l)
	localizer, err := service.NewLocalizer(cfg.Global().InterfaceLanguage)
	if err != nil {
		l.WithError(err).Fatal("Error create localizer")
	}

	container := &Container{
		Logger:    l,
		DB:        db,
		Cache:     c,
		Cfg:       cfg,
		Queue:     q,
		Localizer: localizer,
		Access:    service.NewAccess(cfg.Telegram(), l),
		Guard:     cancel.NewManager(),
	}
	container.closers = append(container.closers, func(context.Context) error { return db.Close() })

	httpCfg := network.NewAPIHTTPClientConfig(cfg.HTTP())
	container.HttpClient = network.SetupHTTPClient(httpCfg, l)

	dial, err := network.SetupDialer(cfg.HTTP(), l)
	if err != nil {
		l.WithError(err).Fatal("Failed to set up MTProto dialer")
	}

	var probeStore probe.Store = db
	var sessions probe.SessionStore = db
	if cfg.Probe().Store == config.ProbeStoreMongo {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		store, err := mongo.NewStore(ctx, cfg.Mongo(), l)
		cancel()
		if err != nil {
			l.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		probeStore, sessions = store, store
		container.closers = append(container.closers, store.Close)
	}
	l.WithField("store", cfg.Probe().Store).Info("Probe store initialized")

	tgCfg := cfg.Telegram()
	container.TD = service.NewTelegramAPI(tgCfg.ApiID, tgCfg.ApiHash, tgCfg.Token, sessions, dial, c, l)
	if !tgCfg.MTProtoEnabled() {
		l.Warn("MTProto credentials not set, check commands will report the gateway as not configured")
	}
	container.Probe = probe.NewFlow(probeStore, container.TD, container.Guard, l)

	registry := ai.NewRegistry(l)
	if openaiCfg := cfg.OpenAI(); openaiCfg.APIKey != "" {
		registry.Register(ai.NewOpenAIClient(openaiCfg, container.HttpClient, l))
	}
	if geminiCfg := cfg.Gemini(); geminiCfg.APIKey != "" {
		gemini, err := ai.NewGeminiClient(context.Background(), geminiCfg, l)
		if err != nil {
			l.WithError(err).Error("Failed to initialize Gemini client")
		} else {
			registry.Register(gemini)
			container.closers = append(container.closers, func(context.Context) error { return gemini.Close() })
		}
	}
	container.AI = registry

	container.BotAcax = service.NewBotAcaxClient(cfg.BotAcax(), container.HttpClient, c, l)

	ytCfg := cfg.Youtube()
	downloader, err := youtube.NewDownloader(youtube.Options{
		DownloadDir: ytCfg.DownloadDir,
		CookiesFile: ytCfg.CookiesFile,
		MaxSize:     ytCfg.MaxSize,
		Proxy:       cfg.HTTP().GetProxy(),
	}, l)
	if err != nil {
		l.WithError(err).Fatal("Invalid youtube configuration")
	}
	container.Downloader = downloader
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := downloader.Install(ctx); err != nil {
			l.WithError(err).Error("yt-dlp install failed, song commands will fail")
			return
		}
		l.Info("yt-dlp ready")
	}()

	api, err := tgbotapi.NewBotAPI(tgCfg.Token)
	if err != nil {
		l.WithError(err).Fatal("Bot API client initialization error")
	}
	l.Info("Bot API initialized")

	container.BotClient = telegram.NewBotClient(api, l)

	return container, nil
}

// Close releases stores and clients in reverse order of creation.
func (c *Container) Close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			c.Logger.WithError(err).Error("Failed to close resource")
		}
	}
}
