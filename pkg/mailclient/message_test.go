package mailclient

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHtmlToText(t *testing.T) {
	html := `<p>Hello&nbsp;<b>World</b></p><br>1 &lt; 2 &amp; 3 &gt; 2`
	assert.Equal(t, "Hello World1 < 2 & 3 > 2", htmlToText(html))
}

func TestMessageRender(t *testing.T) {
	t.Run("no attachments", func(t *testing.T) {
		msg := message{
			From:     mail.Address{Name: "招生办", Address: "admin@example.com"},
			To:       "alice@example.com",
			Subject:  "考试通知",
			HTMLBody: "<p>Hi Alice</p>",
			Domain:   "example.com",
		}

		raw := msg.render()

		assert.Contains(t, raw, "To: alice@example.com\r\n")
		assert.Contains(t, raw, "MIME-Version: 1.0\r\n")
		assert.Contains(t, raw, "multipart/alternative")
		assert.NotContains(t, raw, "multipart/mixed")
		assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\nContent-Transfer-Encoding: base64")
		assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\nContent-Transfer-Encoding: base64")

		// bodies travel base64, never as raw bytes
		assert.NotContains(t, raw, "<p>Hi Alice</p>")
		assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("<p>Hi Alice</p>")))
		assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("Hi Alice")))

		// non-ascii subject is word-encoded
		assert.Contains(t, raw, "Subject: =?utf-8?q?")
		// message id carries the sending domain
		assert.Contains(t, raw, "@example.com>\r\n")
	})

	t.Run("with attachment", func(t *testing.T) {
		msg := message{
			From:     mail.Address{Address: "admin@example.com"},
			To:       "bob@example.com",
			Subject:  "report",
			HTMLBody: "<p>attached</p>",
			Domain:   "example.com",
			Attachments: []Part{
				{Filename: "成绩.pdf", ContentType: "application/pdf", Data: []byte("%PDF-fake")},
			},
		}

		raw := msg.render()

		assert.Contains(t, raw, "multipart/mixed")
		assert.Contains(t, raw, "multipart/alternative")
		assert.Contains(t, raw, "Content-Type: application/pdf")
		assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
		assert.Contains(t, raw, "Content-Disposition: attachment; filename=")
		// filename must survive in an encoded-word, never raw utf-8
		assert.NotContains(t, raw, "成绩.pdf")
	})

	t.Run("message ids are unique across renders", func(t *testing.T) {
		assert.NotEqual(t, messageID("x.com"), messageID("x.com"))
	})
}

// TestMessageRenderMultipartRoundTrip feeds the rendered message back through
// the stdlib MIME stack: the boundary parameters must parse, the multipart
// structure must be walkable, and the decoded parts must match what went in.
func TestMessageRenderMultipartRoundTrip(t *testing.T) {
	pdf := []byte("%PDF-fake")
	msg := message{
		From:     mail.Address{Name: "招生办", Address: "admin@example.com"},
		To:       "alice@example.com",
		Subject:  "考试通知",
		HTMLBody: "<p>各位同学请查收</p>",
		Domain:   "example.com",
		Attachments: []Part{
			{Filename: "成绩.pdf", ContentType: "application/pdf", Data: pdf},
		},
	}

	parsed, err := mail.ReadMessage(strings.NewReader(msg.render()))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)
	require.NotEmpty(t, params["boundary"])

	mixed := multipart.NewReader(parsed.Body, params["boundary"])

	alt, err := mixed.NextPart()
	require.NoError(t, err)
	altType, altParams, err := mime.ParseMediaType(alt.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", altType)
	require.NotEmpty(t, altParams["boundary"])

	var bodies []string
	nested := multipart.NewReader(alt, altParams["boundary"])
	for {
		part, _err := nested.NextPart()
		if _err == io.EOF {
			break
		}

		require.NoError(t, _err)
		require.Equal(t, "base64", part.Header.Get("Content-Transfer-Encoding"))

		decoded, _err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, part))
		require.NoError(t, _err)
		bodies = append(bodies, string(decoded))
	}

	require.Len(t, bodies, 2)
	assert.Equal(t, "各位同学请查收", bodies[0])
	assert.Equal(t, "<p>各位同学请查收</p>", bodies[1])

	att, err := mixed.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", att.Header.Get("Content-Type"))

	decoded, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, att))
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestMessageRenderBase64LineLength(t *testing.T) {
	msg := message{
		From:     mail.Address{Address: "a@b.com"},
		To:       "c@d.com",
		Subject:  "s",
		HTMLBody: "<p>x</p>",
		Domain:   "b.com",
		Attachments: []Part{
			{Filename: "blob.bin", ContentType: "application/octet-stream", Data: make([]byte, 4096)},
		},
	}

	raw := msg.render()
	inBody := false
	for _, line := range strings.Split(raw, "\r\n") {
		if strings.HasPrefix(line, "--") {
			inBody = false
			continue
		}
		if strings.HasPrefix(line, "Content-Transfer-Encoding: base64") {
			inBody = true
			continue
		}
		if inBody && line != "" {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}
