package start

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/muratoffalex/tgchecker/internal/app/di"
	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/commands/base"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

const CommandName = "start"

// Lister returns the registered commands.
type Lister func() []commands.Command

type privileges interface {
	IsPrivileged(userID int64) bool
}

type userCounter interface {
	CountUsers() (int, error)
}

type Command struct {
	*base.Command
	list   Lister
	access privileges
	users  userCounter
}

func New(di *di.Container, list Lister) *Command {
	cmd := &Command{list: list}
	if di.Access != nil {
		cmd.access = di.Access
	}
	if di.DB != nil {
		cmd.users = di.DB
	}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Execute(ctx context.Context, update telegram.Update) error {
	lang := c.Lang(update)
	userID := c.SenderID(update)

	var sb strings.Builder
	sb.WriteString(c.T(lang, "start_greeting", map[string]any{
		"Name":   update.Message.From.FirstName,
		"UserID": userID,
	}))

	user, admin := c.split()
	sb.WriteString("\n")
	c.writeList(&sb, lang, user)

	if len(admin) > 0 && c.access != nil && c.access.IsPrivileged(userID) {
		sb.WriteString("\n\n<b>")
		sb.WriteString(c.T(lang, "start_admin_section", nil))
		sb.WriteString("</b>\n")
		c.writeList(&sb, lang, admin)
		c.writeUserCount(&sb, lang)
	}

	_, err := c.Reply(update, sb.String())
	return err
}

func (c *Command) split() (user, admin []commands.Command) {
	if c.list == nil {
		return nil, nil
	}
	all := c.list()
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	for _, cmd := range all {
		if cmd.Access() == commands.AccessAdmin {
			admin = append(admin, cmd)
		} else {
			user = append(user, cmd)
		}
	}
	return user, admin
}

func (c *Command) writeList(sb *strings.Builder, lang string, cmds []commands.Command) {
	for _, cmd := range cmds {
		fmt.Fprintf(sb, "\n/%s - %s", cmd.Name(), c.T(lang, "cmd_"+cmd.Name(), nil))
	}
}

func (c *Command) writeUserCount(sb *strings.Builder, lang string) {
	if c.users == nil {
		return
	}
	n, err := c.users.CountUsers()
	if err != nil {
		c.Logger.WithError(err).Warn("Failed to count users")
		return
	}
	sb.WriteString("\n\n")
	sb.WriteString(c.T(lang, "start_users_total", map[string]any{"Count": n}))
}
