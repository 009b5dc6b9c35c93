package mailclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func TestValidateAttachments(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := ValidateAttachments([]string{"/no/such/file.pdf"}, 100, 100)
		assert.Error(t, err)
	})

	t.Run("file exactly at per-file limit passes", func(t *testing.T) {
		p := writeTemp(t, "a.bin", 100)
		assert.NoError(t, ValidateAttachments([]string{p}, 100, 1000))
	})

	t.Run("file one byte over per-file limit fails", func(t *testing.T) {
		p := writeTemp(t, "a.bin", 101)
		err := ValidateAttachments([]string{p}, 100, 1000)
		assert.ErrorIs(t, err, ErrAttachmentTooLarge)
		assert.Contains(t, err.Error(), "a.bin")
	})

	t.Run("set exactly at total limit passes", func(t *testing.T) {
		a := writeTemp(t, "a.bin", 60)
		b := writeTemp(t, "b.bin", 40)
		assert.NoError(t, ValidateAttachments([]string{a, b}, 100, 100))
	})

	t.Run("set one byte over total limit fails", func(t *testing.T) {
		a := writeTemp(t, "a.bin", 60)
		b := writeTemp(t, "b.bin", 41)
		err := ValidateAttachments([]string{a, b}, 100, 100)
		assert.ErrorIs(t, err, ErrAttachmentBudget)
	})

	t.Run("directory rejected", func(t *testing.T) {
		assert.Error(t, ValidateAttachments([]string{t.TempDir()}, 100, 100))
	})
}

func TestLoadAttachments(t *testing.T) {
	pdf := writeTemp(t, "doc.pdf", 10)
	blob := writeTemp(t, "data.xyzunknown", 10)

	parts, err := LoadAttachments([]string{pdf, blob}, 100, 100)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, "doc.pdf", parts[0].Filename)
	assert.Equal(t, "application/pdf", parts[0].ContentType)
	assert.Len(t, parts[0].Data, 10)

	// unknown extension falls back to octet-stream
	assert.Equal(t, "application/octet-stream", parts[1].ContentType)
}

func TestServerProfileValidate(t *testing.T) {
	assert.NoError(t, ServerProfile{Name: "a", Host: "h", Port: 465, UseSSL: true}.Validate())
	assert.NoError(t, ServerProfile{Name: "a", Host: "h", Port: 25}.Validate())
	assert.Error(t, ServerProfile{Name: "a", Host: "h", Port: 587, UseSSL: true, UseTLS: true}.Validate())
}

func TestCredentialDomain(t *testing.T) {
	assert.Equal(t, "example.com", Credential{Address: "a@Example.COM"}.Domain())
	assert.Equal(t, "", Credential{Address: "not-an-address"}.Domain())
}
