package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/logger"
	yt "github.com/muratoffalex/tgchecker/internal/service/youtube"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const (
	SongCommandName  = "song"
	VSongCommandName = "vsong"

	maxCaptionLength = 1000
	uploadRetries    = 2
)

var errDownloaderUnavailable = errors.New("downloader is not available")

type downloader interface {
	Download(ctx context.Context, query string, kind yt.Kind) (*yt.Media, error)
	MaxSize() string
}

type Command struct {
	*base.Command
	kind       yt.Kind
	downloader downloader
}

// New builds /song for yt.KindAudio and /vsong for yt.KindVideo.
func New(di *di.Container, kind yt.Kind) *Command {
	cmd := &Command{kind: kind}
	cmd.Command = base.NewCommand(cmd, di)
	if di.Downloader != nil {
		cmd.downloader = di.Downloader
	}
	return cmd
}

func (c *Command) Name() string {
	if c.kind == yt.KindVideo {
		return VSongCommandName
	}
	return SongCommandName
}

func (c *Command) Aliases() []string {
	if c.kind == yt.KindVideo {
		return []string{"video", "yt"}
	}
	return []string{"audio", "music"}
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	lang := c.Lang(update)
	query := c.Args(update)
	if query == "" {
		_, err := c.Reply(update, c.T(lang, "song_usage", map[string]any{"Command": c.Name()}))
		return err
	}

	if c.downloader == nil {
		_, err := c.Reply(update, c.T(lang, "song_failed", map[string]any{"Error": errDownloaderUnavailable}))
		return err
	}

	progress, _ := c.Reply(update, c.T(lang, "song_progress", map[string]any{"Query": query}))

	log := c.Logger.WithFields(logger.Fields{
		"command": c.Name(),
		"query":   query,
	})

	media, err := c.downloader.Download(ctx, query, c.kind)
	if errors.Is(err, yt.ErrTooLarge) {
		log.WithError(err).Warn("Media exceeds size limit")
		return c.Finish(update, progress, c.T(lang, "song_too_large", map[string]any{"Limit": c.downloader.MaxSize()}))
	}
	if err != nil {
		log.WithError(err).Error("Download failed")
		return c.Finish(update, progress, c.T(lang, "song_failed", map[string]any{"Error": err}))
	}
	defer yt.Remove(media.Path, c.Logger)

	action := telegram.ActionUploadVoice
	if c.kind == yt.KindVideo {
		action = telegram.ActionUploadVideo
	}
	if err := c.Tg.SendChatAction(update.Message.Chat.ID, action); err != nil {
		log.WithError(err).Debug("Failed to send chat action")
	}

	if _, err := c.Tg.SendWithRetry(c.message(update, media), uploadRetries); err != nil {
		log.WithError(err).Error("Failed to send media")
		return c.Finish(update, progress, c.T(lang, "song_failed", map[string]any{"Error": err}))
	}

	c.DeleteProgress(progress)
	return nil
}

func (c *Command) message(update telegram.Update, media *yt.Media) telegram.MessageConfig {
	chatID := update.Message.Chat.ID
	file := telegram.FilePath(media.Path)
	caption := mediaCaption(media)
	seconds := int(media.Duration.Seconds())

	if c.kind == yt.KindVideo {
		msg := telegram.NewVideoMessage(chatID, file, caption, update.Message.MessageID)
		msg.ParseMode = telegram.ModeHTML
		msg.Duration = seconds
		return msg
	}
	msg := telegram.NewAudioMessage(chatID, file, caption, update.Message.MessageID)
	msg.ParseMode = telegram.ModeHTML
	msg.Title = media.Title
	msg.Duration = seconds
	return msg
}

func mediaCaption(media *yt.Media) string {
	var sb strings.Builder
	if media.Title != "" {
		fmt.Fprintf(&sb, "<b>%s</b>", telegram.EscapeHTML(telegram.Truncate(media.Title, maxCaptionLength)))
	}
	if media.Duration > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "⏱ %s · %s", formatDuration(int(media.Duration.Seconds())), yt.FormatFileSize(media.Size))
	}
	return sb.String()
}

func formatDuration(total int) string {
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
