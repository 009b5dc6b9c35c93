package mailclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRejectsControlCharacterAddress(t *testing.T) {
	client, err := NewSmtp(&SmtpMailerConfig{
		Credential: &Credential{
			Address:    "sender@example.com",
			Secret:     "authcode",
			ServerName: "example",
		},
		Profile: &ServerProfile{
			Name:   "example",
			Host:   "smtp.example.com",
			Port:   465,
			UseSSL: true,
		},
	})
	require.NoError(t, err)

	// refused before any dial happens, so no live server is needed here
	ok, detail := client.Send(context.Background(),
		"victim@example.com\r\nBcc: hidden@example.com", "hello", "<p>hi</p>", nil)
	assert.False(t, ok)
	assert.Contains(t, detail, "control characters")
}

func TestHeaderSafe(t *testing.T) {
	assert.True(t, headerSafe("alice@example.com"))
	assert.True(t, headerSafe("bad@@invalid")) // malformed but transmittable
	assert.False(t, headerSafe("a@b.com\r\nX-Injected: 1"))
	assert.False(t, headerSafe("a@b.com\n"))
	assert.False(t, headerSafe("a\x00@b.com"))
}
