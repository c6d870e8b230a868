package schema

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewFile(t *testing.T) {
	content := []byte("hello data box")
	path := writeFile(t, "note.txt", content)

	f, err := NewFile(path)
	require.NoError(t, err)

	assert.Equal(t, "text/plain", f.MimeType)
	assert.Equal(t, FileEnclosure, f.MetaType)
	assert.Equal(t, "note.txt", f.Description)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), f.EncodedContent)
	assert.Equal(t, path, f.Path)
	assert.Empty(t, f.UpperGUID)
	_, err = uuid.Parse(f.GUID)
	assert.NoError(t, err)
	assert.True(t, f.HasContent())
}

func TestNewFile_Options(t *testing.T) {
	path := writeFile(t, "invoice.pdf", []byte("%PDF-1.4\n"))

	f, err := NewFile(path,
		WithMetaType(FileMain),
		WithDescription("Faktura"),
		WithGUID("file-1"),
		WithUpperGUID("file-0"),
	)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.MimeType)
	assert.Equal(t, FileMain, f.MetaType)
	assert.Equal(t, "Faktura", f.Description)
	assert.Equal(t, "file-1", f.GUID)
	assert.Equal(t, "file-0", f.UpperGUID)
}

func TestNewFile_SniffsUnknownExtension(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	path := writeFile(t, "scan.unknownext", png)

	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MimeType)
}

func TestNewFile_EmptyPath(t *testing.T) {
	f, err := NewFile("")
	require.NoError(t, err)
	assert.Equal(t, File{}, *f)
	assert.False(t, f.HasContent())
}

func TestNewFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pdf")

	f, err := NewFile(path)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, isdserr.ErrResource)

	var re *isdserr.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, path, re.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "text/plain", DetectMimeType("README", []byte("plain text")))
}
