package getuser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/probe"
	"github.com/muratoffalex/tgchecker/internal/service"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const CommandName = "getuser"

type users interface {
	GetUser(userID int64) (*database.User, error)
}

type profiles interface {
	LookupUser(ctx context.Context, userID int64) (*service.TelegramProfile, error)
}

type userInfo interface {
	UserInfoEnabled() bool
	UserInfo(ctx context.Context, telegramID int64) (*service.BotAcaxUser, error)
}

// checks exposes the latest probe record of a requester.
type checks interface {
	History(ctx context.Context, requesterID int64, filter probe.Filter) (*probe.Record, error)
}

type Command struct {
	*base.Command
	users    users
	profiles profiles
	botacax  userInfo
	checks   checks
}

func New(di *di.Container) *Command {
	cmd := &Command{}
	cmd.Command = base.NewCommand(cmd, di)
	if di.DB != nil {
		cmd.users = di.DB
	}
	if di.TD != nil {
		cmd.profiles = di.TD
	}
	if di.BotAcax != nil {
		cmd.botacax = di.BotAcax
	}
	if di.Probe != nil {
		cmd.checks = di.Probe
	}
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Access() commands.Access {
	return commands.AccessAdmin
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	lang := c.Lang(update)
	arg := telegram.FirstArg(c.Args(update))
	if arg == "" {
		_, err := c.Reply(update, c.T(lang, "getuser_usage", nil))
		return err
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		_, err := c.Reply(update, c.T(lang, "getuser_invalid_id", nil))
		return err
	}

	r := &report{cmd: c, lang: lang}
	r.title(id)
	c.writeDB(r, id)
	c.writeLastCheck(ctx, r, id)
	c.writeTelegram(ctx, r, id)
	c.writeBotAcax(ctx, r, id)

	_, err = c.Reply(update, r.String())
	return err
}

func (c *Command) writeDB(r *report, id int64) {
	r.section("getuser_db_section")
	if c.users == nil {
		r.line(c.T(r.lang, "getuser_db_missing", nil))
		return
	}
	user, err := c.users.GetUser(id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.Logger.WithError(err).WithField("user_id", id).Error("Failed to load user")
		}
		r.line(c.T(r.lang, "getuser_db_missing", nil))
		return
	}
	r.field("getuser_label_name", strings.TrimSpace(user.FirstName+" "+user.LastName))
	r.field("getuser_label_username", username(user.Username))
	r.field("getuser_label_role", user.Role())
	if !user.LastInteraction.IsZero() {
		r.field("getuser_label_last_seen", user.LastInteraction.UTC().Format(time.DateTime))
	}
}

// writeLastCheck reports the latest probe run by id. The probed number is
// left out.
func (c *Command) writeLastCheck(ctx context.Context, r *report, id int64) {
	if c.checks == nil {
		return
	}
	r.section("getuser_check_section")
	rec, err := c.checks.History(ctx, id, probe.Filter{})
	if err != nil {
		c.Logger.WithError(err).WithField("user_id", id).Error("Failed to load last check")
		r.line(c.T(r.lang, "getuser_check_missing", nil))
		return
	}
	if rec == nil {
		r.line(c.T(r.lang, "getuser_check_missing", nil))
		return
	}
	r.field("getuser_label_stage", string(rec.Stage))
	r.field("getuser_label_outcome", string(rec.Outcome))
	if !rec.CreatedAt.IsZero() {
		r.field("getuser_label_checked_at", rec.CreatedAt.UTC().Format(time.DateTime))
	}
}

func (c *Command) writeTelegram(ctx context.Context, r *report, id int64) {
	r.section("getuser_tg_section")
	if c.profiles == nil {
		r.line(c.T(r.lang, "gateway_not_configured", nil))
		return
	}
	profile, err := c.profiles.LookupUser(ctx, id)
	if err != nil {
		c.Logger.WithError(err).WithField("user_id", id).Warn("Telegram lookup failed")
		r.line(c.T(r.lang, "getuser_tg_missing", map[string]any{"Error": err}))
		return
	}
	r.field("getuser_label_name", strings.TrimSpace(profile.FirstName+" "+profile.LastName))
	r.field("getuser_label_username", username(profile.Username))
	r.field("getuser_label_phone", profile.Phone)
	r.field("getuser_label_bio", profile.About)
	r.field("getuser_label_flags", flags(profile))
}

func (c *Command) writeBotAcax(ctx context.Context, r *report, id int64) {
	if c.botacax == nil || !c.botacax.UserInfoEnabled() {
		return
	}
	r.section("getuser_botacax_section")
	info, err := c.botacax.UserInfo(ctx, id)
	if err != nil {
		c.Logger.WithError(err).WithField("user_id", id).Warn("BotAcax lookup failed")
		r.line(c.T(r.lang, "getuser_botacax_missing", map[string]any{"Error": err}))
		return
	}
	r.field("getuser_label_name", info.FullName)
	r.field("getuser_label_username", username(info.TelegramUsername))
	r.field("getuser_label_bio", info.TelegramBio)
	github := info.GithubUsername
	if github != "" && info.GithubID != "" {
		github = fmt.Sprintf("%s (%s)", github, info.GithubID)
	}
	r.field("getuser_label_github", github)
	r.field("getuser_label_email", info.GithubEmail)
}

func username(name string) string {
	if name == "" {
		return ""
	}
	return "@" + name
}

func flags(p *service.TelegramProfile) string {
	var out []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{p.Bot, "bot"},
		{p.Premium, "premium"},
		{p.Verified, "verified"},
		{p.Scam, "scam"},
		{p.Fake, "fake"},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return strings.Join(out, ", ")
}
