// Package config persists the choices of the import between runs.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/pdf2notes/internal/convert"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// Keys of the persisted configuration.
const (
	KeyDir         = "dir"
	KeyDeckID      = "deck_id"
	KeySubdeck     = "subdeck"
	KeyNoteTypeID  = "note_type_id"
	KeyFront       = "front_field"
	KeyBack        = "back_field"
	KeyFormat      = "format"
	KeyFitWidth    = "fit_width"
	KeyFitHeight   = "fit_height"
	KeyShortcut    = "shortcut"
	KeyCollection  = "collection"
	KeyDatabaseURL = "database_url"
	KeyLogLevel    = "log_level"
	KeyAI          = "ai"
	KeyAIModel     = "ai_model"
)

const (
	EnvPrefix       = "PDF2NOTES"
	DefaultShortcut = "Ctrl+Alt+p"
	DefaultLogLevel = "warning"
	AIOff           = "off"
	AIGemini        = "gemini"

	appName  = "pdf2notes"
	fileName = "config.json"
	dirPerm  = 0o750
	filePerm = 0o600
)

// defaults returns the value of every key in a fresh configuration.
func defaults() map[string]interface{} {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".local", "share", appName)
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		dataDir = filepath.Join(d, appName)
	}

	return map[string]interface{}{
		KeyDir:         home,
		KeyDeckID:      int64(1),
		KeySubdeck:     false,
		KeyNoteTypeID:  int64(0),
		KeyFront:       "",
		KeyBack:        "",
		KeyFormat:      string(convert.FormatImage),
		KeyFitWidth:    0,
		KeyFitHeight:   0,
		KeyShortcut:    DefaultShortcut,
		KeyCollection:  dataDir,
		KeyDatabaseURL: "",
		KeyLogLevel:    DefaultLogLevel,
		KeyAI:          AIOff,
		KeyAIModel:     "",
	}
}

// Keys lists every configuration key in alphabetical order.
func Keys() []string {
	var keys []string
	for k := range defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPath is config.json in the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName, fileName)
}

// Store is the flat key/value configuration backed by a JSON file. v is
// the merged view of defaults, file, environment and flags; file holds only
// what was read from or explicitly set for the file.
type Store struct {
	v    *viper.Viper
	file *viper.Viper
	path string
}

// Open reads the configuration at path. A missing file yields the defaults.
// Environment variables named PDF2NOTES_<KEY> override the file.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, d := range defaults() {
		v.SetDefault(k, d)
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("json")
	file.SetConfigPermissions(filePerm)

	for _, r := range []*viper.Viper{v, file} {
		if err := r.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "read config %q", path)
		}
	}
	return &Store{v: v, file: file, path: path}, nil
}

// Path is the file the store is saved to.
func (s *Store) Path() string {
	return s.path
}

func isKey(key string) bool {
	_, ok := defaults()[key]
	return ok
}

// Get returns the value of key as a string.
func (s *Store) Get(key string) (string, error) {
	if !isKey(key) {
		return "", errors.NewConfigError("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return s.v.GetString(key), nil
}

// Set changes key in memory; Save persists it.
func (s *Store) Set(key, value string) error {
	if !isKey(key) {
		return errors.NewConfigError("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	s.set(key, value)
	return nil
}

func (s *Store) set(key string, value interface{}) {
	s.v.Set(key, value)
	s.file.Set(key, value)
}

// BindFlag makes a flag override key when it is set on the command line.
func (s *Store) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("no flag for config key %q", key)
	}
	return s.v.BindPFlag(key, f)
}

// Save writes the keys read from the file or set on the store. Values that
// only come from defaults, the environment or flags are not written.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	if err := s.file.WriteConfigAs(s.path); err != nil {
		return errors.Wrap(err, "write config %q", s.path)
	}
	return nil
}
