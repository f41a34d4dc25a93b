package tiktok

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const (
	CommandName = "tiktok_dl"

	// uploads are retried when Telegram answers with a flood wait
	uploadRetries = 2
)

type videos interface {
	TikTokEnabled() bool
	TikTok(ctx context.Context, videoURL string) (*service.TikTokVideo, error)
}

type Command struct {
	*base.Command
	videos videos
}

func New(di *di.Container) *Command {
	cmd := &Command{}
	cmd.Command = base.NewCommand(cmd, di)
	if di.BotAcax != nil {
		cmd.videos = di.BotAcax
	}
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Aliases() []string {
	return []string{"tiktok", "tt"}
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	lang := c.Lang(update)
	link := telegram.FirstArg(c.Args(update))
	if link == "" {
		_, err := c.Reply(update, c.T(lang, "tiktok_usage", nil))
		return err
	}
	if !IsTikTokURL(link) {
		_, err := c.Reply(update, c.T(lang, "tiktok_invalid_url", nil))
		return err
	}
	if c.videos == nil || !c.videos.TikTokEnabled() {
		_, err := c.Reply(update, c.T(lang, "tiktok_not_configured", nil))
		return err
	}

	progress, _ := c.Reply(update, c.T(lang, "tiktok_progress", nil))

	video, err := c.videos.TikTok(ctx, link)
	if errors.Is(err, service.ErrBotAcaxNoData) || (err == nil && video.DownloadURL() == "") {
		return c.Finish(update, progress, c.T(lang, "tiktok_no_video", nil))
	}
	if err != nil {
		c.Logger.WithError(err).WithField("url", link).Warn("TikTok request failed")
		return c.Finish(update, progress, c.T(lang, "tiktok_failed", map[string]any{"Error": err}))
	}

	if err := c.Tg.SendChatAction(update.Message.Chat.ID, telegram.ActionUploadVideo); err != nil {
		c.Logger.WithError(err).Debug("Failed to send chat action")
	}

	msg := telegram.NewVideoMessage(
		update.Message.Chat.ID,
		telegram.FileURL(video.DownloadURL()),
		caption(video),
		update.Message.MessageID,
	)
	msg.ParseMode = telegram.ModeHTML
	if _, err := c.Tg.SendWithRetry(msg, uploadRetries); err != nil {
		c.Logger.WithError(err).WithField("url", link).Error("Failed to send TikTok video")
		return c.Finish(update, progress, c.T(lang, "tiktok_failed", map[string]any{"Error": err}))
	}

	c.DeleteProgress(progress)
	return nil
}

func caption(v *service.TikTokVideo) string {
	var parts []string
	if v.Title != "" {
		parts = append(parts, telegram.EscapeHTML(telegram.Truncate(v.Title, 900)))
	}
	if v.Author != "" {
		parts = append(parts, "<i>"+telegram.EscapeHTML(v.Author)+"</i>")
	}
	return strings.Join(parts, "\n")
}

// IsTikTokURL accepts tiktok.com and its short link hosts.
func IsTikTokURL(raw string) bool {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com")
}
