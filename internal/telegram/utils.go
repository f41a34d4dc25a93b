package telegram

import (
	"strings"
	"unicode"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// CommandArgs splits "/cmd@bot a b" into the lowercased command name without
// the bot suffix and its raw argument string.
func CommandArgs(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	head, rest := text, ""
	if end := strings.IndexFunc(text, unicode.IsSpace); end >= 0 {
		head, rest = text[:end], text[end:]
	}
	command, _, _ = strings.Cut(strings.TrimPrefix(head, "/"), "@")
	return strings.ToLower(command), strings.TrimSpace(rest)
}

// FirstArg returns the first whitespace separated argument.
func FirstArg(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Truncate cuts text to at most limit runes.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// EscapeHTML makes text safe inside an HTML formatted message.
func EscapeHTML(text string) string {
	return tgbotapi.EscapeText(ModeHTML, text)
}
