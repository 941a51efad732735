package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyayasetu-web/config"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := s.Put(ctx, uuid.New(), "FIR copy.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_FIR_copy.pdf"), path)

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(body))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Open(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, path), "deleting twice is fine")
}

func TestStagingPath_SanitizesName(t *testing.T) {
	id := uuid.MustParse("3f2b8c1e-0000-4000-8000-000000000000")
	got := stagingPath(id, "../../etc/pass wd.TXT")
	assert.Equal(t, "3f/3f2b8c1e-0000-4000-8000-000000000000_pass_wd.txt", got)
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		declared, filename, want string
	}{
		{"application/pdf", "x.bin", MimePDF},
		{"text/plain; charset=utf-8", "notes", MimeText},
		{"", "Brief.DOCX", MimeDocx},
		{"application/octet-stream", "old.doc", MimeDoc},
		{"", "photo.png", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMimeType(tt.declared, tt.filename), tt.filename)
	}
}

func TestAccepted(t *testing.T) {
	assert.True(t, Accepted(MimePDF))
	assert.True(t, Accepted(MimeDocx))
	assert.False(t, Accepted("image/png"))
	assert.False(t, Accepted("application/octet-stream"))
}
