package service

import (
	"os"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizer(t *testing.T) {
	l, err := NewLocalizer("en")
	require.NoError(t, err)

	assert.Equal(t, "Error: boom", l.Localize("error", map[string]any{"Error": "boom"}))
	assert.Equal(t, "missing_id", l.Localize("missing_id", nil))

	assert.Contains(t, l.LocalizeFor("id", "check_otp_expired", nil), "kadaluarsa")
	assert.Contains(t, l.LocalizeFor("de", "check_otp_expired", nil), "expired")

	assert.ElementsMatch(t, []string{"en", "id"}, l.Languages())
}

func TestLocalizer_InvalidLanguage(t *testing.T) {
	_, err := NewLocalizer("not a language!")
	assert.Error(t, err)
}

func TestLocales_SameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := os.ReadFile("locales/" + name)
		require.NoError(t, err)
		var messages map[string]string
		require.NoError(t, toml.Unmarshal(data, &messages))
		return messages
	}

	en := load("en.toml")
	id := load("id.toml")

	for key := range en {
		assert.Contains(t, id, key, "id.toml")
	}
	for key := range id {
		assert.Contains(t, en, key, "en.toml")
	}
	for key, msg := range en {
		assert.Equal(t, strings.Count(msg, "{{"), strings.Count(id[key], "{{"), key)
	}
}
