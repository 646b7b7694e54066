package assets

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"), "http://localhost:3000/", log)
	require.NoError(t, err)
	return s
}

func TestSaveWritesBytesAndReturnsURL(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	s.rand = func() int { return 42 }

	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	name, url, err := s.Save(context.Background(), bytes.NewReader(payload), "cat.png")
	require.NoError(t, err)

	assert.Equal(t, "1700000000123-42-cat.png", name)
	assert.Equal(t, "http://localhost:3000/uploads/1700000000123-42-cat.png", url)
	assert.Contains(t, url, "cat.png")

	got, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSaveKeepsOnlyBaseName(t *testing.T) {
	s := newTestStore(t)
	cases := map[string]string{
		"../../etc/passwd":    "-passwd",
		`..\windows\win.ini`:  "-win.ini",
		"":                    "-upload",
		"nested/dir/logo.svg": "-logo.svg",
	}
	for original, suffix := range cases {
		name, _, err := s.Save(context.Background(), strings.NewReader("x"), original)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, suffix), "name %q for %q", name, original)
		assert.NotContains(t, name, "/")
		_, err = os.Stat(filepath.Join(s.Dir(), name))
		assert.NoError(t, err)
	}
}

func TestSaveRespectsCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.Save(ctx, strings.NewReader("x"), "a.txt")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweepRemovesOldAssets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	oldName, _, err := s.Save(ctx, strings.NewReader("old"), "old.png")
	require.NoError(t, err)
	newName, _, err := s.Save(ctx, strings.NewReader("new"), "new.png")
	require.NoError(t, err)

	thumbs := filepath.Join(s.Dir(), ThumbDir)
	require.NoError(t, os.MkdirAll(thumbs, 0o755))
	oldThumb := filepath.Join(thumbs, oldName)
	require.NoError(t, os.WriteFile(oldThumb, []byte("thumb"), 0o644))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(s.Path(oldName), past, past))
	require.NoError(t, os.Chtimes(oldThumb, past, past))

	removed, err := s.Sweep(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(s.Path(oldName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(oldThumb)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(s.Path(newName))
	assert.NoError(t, err)
}
