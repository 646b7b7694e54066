package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"emailbuilder/utils"
)

// URLPrefix is the path uploaded assets are served under.
const URLPrefix = "/uploads"

// ThumbDir is the sub directory of the upload directory holding previews.
const ThumbDir = "thumbs"

// Store writes uploaded assets to a directory and hands out the URL they are
// served from. Names combine a millisecond timestamp, a random number and
// the original file name; collisions are possible and not mitigated.
type Store struct {
	dir     string
	baseURL string
	logger  *logrus.Logger
	now     func() time.Time
	rand    func() int
}

// NewStore prepares dir (creating it when missing) and returns a Store whose
// URLs start with baseURL.
func NewStore(dir, baseURL string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("dir", dir).Info("Uploads directory ready")
	return &Store{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
		rand:    func() int { return rand.Intn(1_000_000_000) },
	}, nil
}

// Dir returns the directory assets are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location of the asset called name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// URL returns the public URL of the asset called name.
func (s *Store) URL(name string) string {
	return s.baseURL + URLPrefix + "/" + name
}

// Save writes r under a generated name and returns that name and its URL.
func (s *Store) Save(ctx context.Context, r io.Reader, originalName string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	name := s.generateName(originalName)
	path := s.Path(name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", "", utils.NewStorageError("create asset", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", utils.NewStorageError("write asset", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", utils.NewStorageError("close asset", err)
	}

	s.logger.WithFields(logrus.Fields{
		"name":          name,
		"original_name": originalName,
	}).Info("Asset stored")
	return name, s.URL(name), nil
}

func (s *Store) generateName(originalName string) string {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(originalName, "\\", "/")))
	if base == "/" || base == "." {
		base = "upload"
	}
	return fmt.Sprintf("%d-%d-%s", s.now().UnixMilli(), s.rand(), base)
}

// Sweep removes assets, including generated previews, whose modification
// time is older than maxAge. It returns how many files were removed.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, utils.NewStorageError("sweep assets", err)
	}
	return removed, nil
}
