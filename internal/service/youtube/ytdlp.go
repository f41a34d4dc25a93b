package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/muratoffalex/tgchecker/internal/logger"
)

type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

var (
	ErrNoMedia  = errors.New("no media files found")
	ErrTooLarge = errors.New("media is too large")
)

var youtubeRegex = regexp.MustCompile(`^(https?:\/\/)?(www\.|m\.|music\.)?(youtube\.com|youtu\.be)\/.+$`)

type Options struct {
	DownloadDir string
	CookiesFile string
	MaxSize     string
	Proxy       string
}

// Media is a downloaded file. The caller owns Path and removes it.
type Media struct {
	Path      string
	Title     string
	Duration  time.Duration
	Thumbnail string
	Size      int64
}

type Downloader struct {
	opts    Options
	maxSize int64
	logger  logger.Logger
}

func NewDownloader(opts Options, l logger.Logger) (*Downloader, error) {
	maxSize, err := ParseSize(opts.MaxSize)
	if err != nil {
		return nil, err
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = os.TempDir()
	}
	return &Downloader{
		opts:    opts,
		maxSize: maxSize,
		logger:  l.WithField("component", "ytdlp"),
	}, nil
}

// Install fetches the yt-dlp binary when it is not on PATH yet.
func (d *Downloader) Install(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	return err
}

func (d *Downloader) MaxSize() string {
	return d.opts.MaxSize
}

// Download fetches query, which is either a YouTube link or a search phrase.
func (d *Downloader) Download(ctx context.Context, query string, kind Kind) (*Media, error) {
	if err := os.MkdirAll(d.opts.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	target := Target(query)
	l := d.logger.WithFields(logger.Fields{
		"target": target,
		"kind":   kind,
	})
	l.Info("Started download")

	output, err := d.command(kind).Run(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	files, err := output.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if len(files) == 0 || files[0] == nil {
		return nil, ErrNoMedia
	}
	info := files[0]

	path, err := d.resolveFile(info.ID, kind)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat media: %w", err)
	}

	media := &Media{
		Path: path,
		Size: stat.Size(),
	}
	if info.Title != nil {
		media.Title = *info.Title
	}
	if info.Duration != nil {
		media.Duration = time.Duration(*info.Duration * float64(time.Second))
	}
	if info.Thumbnail != nil {
		media.Thumbnail = *info.Thumbnail
	}

	if d.maxSize > 0 && media.Size > d.maxSize {
		Remove(path, l)
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, FormatFileSize(media.Size))
	}

	l.WithFields(logger.Fields{
		"path": path,
		"size": FormatFileSize(media.Size),
	}).Info("Download finished")
	return media, nil
}

func (d *Downloader) command(kind Kind) *ytdlp.Command {
	dl := ytdlp.New().
		SetWorkDir(d.opts.DownloadDir).
		Output("%(id)s.%(ext)s").
		NoPlaylist().
		AbortOnError().
		PrintJSON()

	switch kind {
	case KindAudio:
		dl = dl.Format("bestaudio/best").
			ExtractAudio().
			AudioFormat("mp3").
			AudioQuality("192K")
	default:
		dl = dl.Format("bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best").
			MergeOutputFormat("mp4")
	}

	if d.opts.MaxSize != "" {
		dl = dl.MaxFileSize(d.opts.MaxSize)
	}
	if d.opts.CookiesFile != "" {
		if _, err := os.Stat(d.opts.CookiesFile); err == nil {
			dl = dl.Cookies(d.opts.CookiesFile)
		} else {
			d.logger.WithField("file", d.opts.CookiesFile).Warn("Cookies file not found, some videos may be unavailable")
		}
	}
	if d.opts.Proxy != "" {
		dl = dl.Proxy(d.opts.Proxy)
	}
	return dl
}

// resolveFile finds the file yt-dlp wrote for id. Post-processing can change
// the extension, so the expected one is tried first.
func (d *Downloader) resolveFile(id string, kind Kind) (string, error) {
	expected := "mp4"
	if kind == KindAudio {
		expected = "mp3"
	}
	path := filepath.Join(d.opts.DownloadDir, id+"."+expected)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(d.opts.DownloadDir, globEscape(id)+".*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") && !strings.HasSuffix(m, ".ytdl") {
			return m, nil
		}
	}
	// --max-filesize makes yt-dlp skip the download without failing
	return "", fmt.Errorf("%w (limit %s)", ErrNoMedia, d.opts.MaxSize)
}

// Target turns user input into a yt-dlp argument: links are cleaned, anything
// else becomes a search for the first match.
func Target(query string) string {
	query = strings.TrimSpace(query)
	if youtubeRegex.MatchString(query) {
		if cleaned, err := CleanURL(query); err == nil {
			return cleaned
		}
		return query
	}
	return "ytsearch1:" + query
}

func CleanURL(rawURL string) (string, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.RawQuery != "" {
		query := u.Query()
		query.Del("si")      // YouTube session ID
		query.Del("pp")      // Paid promotion
		query.Del("feature") // source
		query.Del("list")
		query.Del("index")
		u.RawQuery = query.Encode()
	}
	u.Fragment = ""
	return u.String(), nil
}

func Remove(path string, l logger.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		l.WithError(err).WithField("file", path).Error("Failed to remove media file")
	}
}

func ParseSize(sizeStr string) (int64, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return 0, nil
	}

	var multiplier float64 = 1
	switch {
	case strings.HasSuffix(sizeStr, "K"):
		multiplier = 1024
		sizeStr = strings.TrimSuffix(sizeStr, "K")
	case strings.HasSuffix(sizeStr, "M"):
		multiplier = 1024 * 1024
		sizeStr = strings.TrimSuffix(sizeStr, "M")
	case strings.HasSuffix(sizeStr, "G"):
		multiplier = 1024 * 1024 * 1024
		sizeStr = strings.TrimSuffix(sizeStr, "G")
	}

	size, err := strconv.ParseFloat(sizeStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %v", err)
	}

	return int64(size * multiplier), nil
}

func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func globEscape(s string) string {
	r := strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `?`, `\?`)
	return r.Replace(s)
}
