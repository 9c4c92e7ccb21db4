package application

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAvatarStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalAvatarStorage(dir, "avatars")

	url, err := store.Save(context.Background(), "u-1", "photo.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^/static/avatars/u-1_[0-9a-f]{32}\.jpg$`)
	assert.Regexp(t, pattern, url)

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, "avatars", name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestLocalAvatarStorage_SaveNamesAreUnique(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalAvatarStorage(dir, "avatars")
	ctx := context.Background()

	first, err := store.Save(ctx, "u-1", "a.png", "image/png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "u-1", "a.png", "image/png", strings.NewReader("two"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAvatarObjectName(t *testing.T) {
	name := avatarObjectName("u-1", "some.photo.PNG")
	assert.True(t, strings.HasPrefix(name, "u-1_"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	t.Run("no extension", func(t *testing.T) {
		name := avatarObjectName("u-1", "raw")
		assert.Regexp(t, regexp.MustCompile(`^u-1_[0-9a-f]{32}$`), name)
	})
}
