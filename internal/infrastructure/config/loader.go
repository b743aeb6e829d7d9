package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/pkg/filesystem"
	"github.com/doeshing/plz-go/internal/ports"
)

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "PLZ_CONFIG"

// FileLoader loads YAML configuration from ~/.plz/config.yaml (overridable via PLZ_CONFIG).
// A missing file is not an error and nothing is written to disk.
type FileLoader struct {
	overridePath string

	once   sync.Once
	cached domain.Config
	err    error
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. The file is read once per loader.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	l.once.Do(func() {
		l.cached, l.err = l.read()
	})
	return l.cached, l.err
}

// Path returns the file the loader reads from.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(ConfigEnvVar); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func (l *FileLoader) read() (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, nil
		}
		return domain.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
