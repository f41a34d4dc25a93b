package getuser

import (
	"fmt"
	"strings"

	"github.com/muratoffalex/tgchecker/internal/telegram"
)

// report assembles the HTML answer. Values are escaped, labels come from
// the locale files.
type report struct {
	cmd  *Command
	lang string
	sb   strings.Builder
}

func (r *report) title(id int64) {
	fmt.Fprintf(&r.sb, "<b>%s</b>\n", r.cmd.T(r.lang, "getuser_title", map[string]any{"ID": id}))
}

func (r *report) section(key string) {
	fmt.Fprintf(&r.sb, "\n<b>%s</b>\n", r.cmd.T(r.lang, key, nil))
}

func (r *report) field(labelKey, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(&r.sb, "%s: %s\n", r.cmd.T(r.lang, labelKey, nil), telegram.EscapeHTML(value))
}

func (r *report) line(text string) {
	r.sb.WriteString(text)
	r.sb.WriteString("\n")
}

func (r *report) String() string {
	return strings.TrimSpace(r.sb.String())
}
