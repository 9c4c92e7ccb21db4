package application

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
)

// AvatarStorage persists uploaded avatar images and returns the public
// URL/path to store on the user.
type AvatarStorage interface {
	Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// avatarObjectName builds `{user_id}_{random-hex}.{ext}`.
func avatarObjectName(userID, filename string) string {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s_%s%s", userID, hex.EncodeToString(id[:]), ext)
}

// LocalAvatarStorage writes avatars under the public static-asset
// directory; files are served by the /static route.
type LocalAvatarStorage struct {
	StaticDir  string
	AvatarsDir string // relative to StaticDir
}

func NewLocalAvatarStorage(staticDir, avatarsDir string) *LocalAvatarStorage {
	return &LocalAvatarStorage{StaticDir: staticDir, AvatarsDir: avatarsDir}
}

func (s *LocalAvatarStorage) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	dir := filepath.Join(s.StaticDir, filepath.FromSlash(s.AvatarsDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := avatarObjectName(userID, filename)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return "/static/" + strings.TrimSuffix(s.AvatarsDir, "/") + "/" + name, nil
}

// GCSAvatarStorage uploads avatars to a Google Cloud Storage bucket.
// Used instead of local disk when GCS_BUCKET is configured.
type GCSAvatarStorage struct {
	Client *storage.Client
	Bucket string
}

func NewGCSAvatarStorage(client *storage.Client, bucket string) *GCSAvatarStorage {
	return &GCSAvatarStorage{Client: client, Bucket: bucket}
}

func (s *GCSAvatarStorage) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	objectPath := "avatars/" + avatarObjectName(userID, filename)
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

var (
	_ AvatarStorage = (*LocalAvatarStorage)(nil)
	_ AvatarStorage = (*GCSAvatarStorage)(nil)
)
