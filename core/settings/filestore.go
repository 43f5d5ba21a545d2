package settings

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Options is the environment driven FileStore configuration.
type Options struct {
	Dir string `env:"SETTINGS_DIR" default:"data/settings"`
}

// FileStore keeps one JSONC document per user in Dir. Comments and trailing
// commas in hand edited files are accepted.
type FileStore struct {
	log *logger.Logger
	dir string
}

// NewFileStoreFromEnv creates a FileStore from prefixed environment variables.
func NewFileStoreFromEnv(log *logger.Logger, prefix string) (*FileStore, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings config: %w", err)
	}
	return NewFileStore(log, cfg.Dir)
}

// NewFileStore creates dir when missing.
func NewFileStore(log *logger.Logger, dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("settings directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}
	return &FileStore{log: log, dir: dir}, nil
}

// path hashes the user id so it can never escape dir.
func (f *FileStore) path(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".jsonc")
}

// Load returns the saved settings merged over Defaults. A user without a
// file gets Defaults.
func (f *FileStore) Load(ctx context.Context, userID string) (Settings, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(f.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: read settings: %w", repositories.ErrPersistence, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: parse settings: %w", repositories.ErrPersistence, err)
	}

	s := Defaults()
	if err := json.Unmarshal(standardized, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: decode settings: %w", repositories.ErrPersistence, err)
	}

	if err := s.Validate(); err != nil {
		f.log.WarnContext(ctx, "stored settings invalid, using defaults", "error", err)
		return Defaults(), nil
	}
	return s, nil
}

// Save validates and atomically replaces the user's file.
func (f *FileStore) Save(ctx context.Context, userID string, s Settings) error {
	if err := repositories.RequireUser(userID); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(f.path(userID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write settings: %w", repositories.ErrPersistence, err)
	}
	f.log.DebugContext(ctx, "settings saved", "user_id", userID)
	return nil
}
