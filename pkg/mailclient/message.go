package mailclient

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mime"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type message struct {
	From        mail.Address
	To          string
	Subject     string
	HTMLBody    string
	Domain      string // sending domain, goes into the Message-ID
	Attachments []Part
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// htmlToText derives the plain-text alternative from the HTML body: strip
// tags, then unescape the handful of entities the template editor emits.
func htmlToText(html string) string {
	text := htmlTagRe.ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return text
}

// render produces the full RFC 5322 message: headers, a multipart/alternative
// section with a text fallback before the HTML part, and one base64 part per
// attachment under multipart/mixed when attachments exist.
func (m message) render() string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.From.String()))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", m.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject)))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID(m.Domain)))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(m.Attachments) == 0 {
		m.writeAlternative(&msg)
		return msg.String()
	}

	mixed := randomBoundary("mixed")
	// '=' in the boundary is a tspecial, the parameter must be quoted
	// (rfc 2045 section 5.1)
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed))
	msg.WriteString(fmt.Sprintf("--%s\r\n", mixed))
	m.writeAlternative(&msg)
	for _, part := range m.Attachments {
		writeAttachmentPart(&msg, part, mixed)
	}
	msg.WriteString(fmt.Sprintf("--%s--\r\n", mixed))

	return msg.String()
}

// writeAlternative emits the text and html parts. Both travel base64: bodies
// are routinely non-ascii and the session never negotiates 8BITMIME, so raw
// 8-bit bytes under the implicit 7bit default would be undeliverable.
func (m message) writeAlternative(msg *strings.Builder) {
	alt := randomBoundary("alt")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", alt))

	msg.WriteString(fmt.Sprintf("--%s\r\n", alt))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	writeBase64(msg, []byte(htmlToText(m.HTMLBody)))
	msg.WriteString("\r\n")

	// html last so capable readers prefer it
	msg.WriteString(fmt.Sprintf("--%s\r\n", alt))
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	writeBase64(msg, []byte(m.HTMLBody))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", alt))
}

func writeAttachmentPart(msg *strings.Builder, part Part, boundary string) {
	filename := mime.BEncoding.Encode("utf-8", part.Filename)

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString(fmt.Sprintf("Content-Type: %s\r\n", part.ContentType))
	msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", filename))
	msg.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	writeBase64(msg, part.Data)
	msg.WriteString("\r\n")
}

// writeBase64 emits data base64 encoded, wrapped at the rfc 2045 line limit.
func writeBase64(msg *strings.Builder, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		msg.WriteString(encoded[i:end])
		msg.WriteString("\r\n")
	}
}

// messageID builds a unique id from the wall clock and the sending domain.
// Receiving MTAs dedupe on Message-ID, so identical bodies sent to many
// recipients must each get their own.
func messageID(domain string) string {
	if domain == "" {
		domain = "localhost"
	}

	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), randomHex(8), domain)
}

func randomBoundary(prefix string) string {
	return fmt.Sprintf("=_%s_%s", prefix, randomHex(14))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
