package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of balance environment overrides. A double
// underscore separates nesting levels: INSPECTOR_LEVELS__HARD__DECAY_RATE.
const EnvPrefix = "INSPECTOR_"

// OverridesKey is the settings store key holding balance panel overrides.
const OverridesKey = "balance.overrides"

// SettingsStore is the persisted key/value store backing the balance panel.
type SettingsStore interface {
	Setting(key string) (string, bool, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// LoadOptions controls which layers Load consults.
type LoadOptions struct {
	// Path is an explicit balance file. When set it must exist and parse.
	Path string

	// Store supplies persisted overrides. May be nil.
	Store SettingsStore

	// RemoteURL is the remote config endpoint. Empty disables the fetch.
	RemoteURL string

	// HTTPClient is used for the remote fetch. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// RemoteTimeout bounds the remote fetch. Defaults to DefaultRemoteTimeout.
	RemoteTimeout time.Duration

	Logger *log.Logger
}

// Loaded is the result of a successful Load.
type Loaded struct {
	Balance Balance

	// Local is the balance from defaults, file and persisted overrides only.
	// The balance panel edits and saves this layer so remote and environment
	// values are never written into the overrides.
	Local Balance

	// AdminPasswordHash comes from the remote document only.
	AdminPasswordHash string

	// Sources lists the layers that contributed, lowest precedence first.
	Sources []string
}

// Load builds the balance by layering, lowest to highest precedence:
//  1. embedded defaults
//  2. balance file (opts.Path, else ~/.inspector/balance.yaml, else ./configs/balance.yaml)
//  3. persisted overrides from opts.Store
//  4. remote patch from opts.RemoteURL
//  5. environment (INSPECTOR_LEVELS__..., INSPECTOR_SCORING__...)
//
// Remote failures are logged and skipped.
func Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	k := koanf.New(".")
	out := &Loaded{}

	if err := loadDefaults(k); err != nil {
		return nil, err
	}
	out.Sources = append(out.Sources, "defaults")

	src, err := loadFile(k, opts.Path, logger)
	if err != nil {
		return nil, err
	}
	if src != "" {
		out.Sources = append(out.Sources, src)
	}

	if opts.Store != nil {
		ok, err := loadOverrides(k, opts.Store)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Sources = append(out.Sources, "overrides")
		}
	}

	out.Local, err = unmarshalBalance(k)
	if err != nil {
		return nil, err
	}

	if opts.RemoteURL != "" {
		doc, err := fetchWithTimeout(ctx, opts)
		switch {
		case err != nil:
			logger.Warn("remote config unavailable", "url", opts.RemoteURL, "error", err)
		default:
			out.AdminPasswordHash = doc.AdminPasswordHash
			if len(doc.Balance) > 0 {
				patched, err := applyRemote(k, doc.Balance)
				if err != nil {
					logger.Warn("remote balance patch ignored", "url", opts.RemoteURL, "error", err)
				} else {
					k = patched
					out.Sources = append(out.Sources, "remote")
				}
			}
		}
	}

	if hasBalanceEnv() {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("config: load env: %w", err)
		}
		out.Sources = append(out.Sources, "env")
	}

	out.Balance, err = unmarshalBalance(k)
	if err != nil {
		return nil, err
	}

	logger.Debug("balance loaded", "sources", strings.Join(out.Sources, ","))
	return out, nil
}

// applyRemote merges the remote patch into a copy of k. The copy is only
// returned when the patched balance decodes and validates.
func applyRemote(k *koanf.Koanf, patch map[string]any) (*koanf.Koanf, error) {
	patched := k.Copy()
	if err := patched.Load(confmap.Provider(patch, "."), nil); err != nil {
		return nil, err
	}
	if _, err := unmarshalBalance(patched); err != nil {
		return nil, err
	}
	return patched, nil
}

func unmarshalBalance(k *koanf.Koanf) (Balance, error) {
	var b Balance
	if err := k.UnmarshalWithConf("", &b, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Balance{}, fmt.Errorf("%w: %v", ErrInvalidBalance, err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// loadDefaults loads the embedded YAML, falling back to DefaultBalance.
func loadDefaults(k *koanf.Koanf) error {
	if err := k.Load(rawbytes.Provider(defaultBalanceYAML), kyaml.Parser()); err == nil {
		return nil
	}
	data, err := yaml.Marshal(DefaultBalance())
	if err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), kyaml.Parser()); err != nil {
		return fmt.Errorf("config: load defaults: %w", err)
	}
	return nil
}

// loadFile applies the balance file layer and returns its path, or "" when
// no file was used.
func loadFile(k *koanf.Koanf, customPath string, logger *log.Logger) (string, error) {
	if customPath != "" {
		if err := k.Load(file.Provider(customPath), kyaml.Parser()); err != nil {
			return "", fmt.Errorf("config: failed to load %s: %w", customPath, err)
		}
		return customPath, nil
	}

	for _, path := range []string{userConfigPath("balance.yaml"), filepath.Join("configs", "balance.yaml")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			logger.Warn("skipping unreadable balance file", "path", path, "error", err)
			continue
		}
		return path, nil
	}
	return "", nil
}

func loadOverrides(k *koanf.Koanf, store SettingsStore) (bool, error) {
	raw, ok, err := store.Setting(OverridesKey)
	if err != nil {
		return false, fmt.Errorf("config: read overrides: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	if err := k.Load(rawbytes.Provider([]byte(raw)), kyaml.Parser()); err != nil {
		return false, fmt.Errorf("%w: persisted overrides: %v", ErrInvalidBalance, err)
	}
	return true, nil
}

func fetchWithTimeout(ctx context.Context, opts LoadOptions) (*RemoteDocument, error) {
	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return FetchRemote(ctx, opts.HTTPClient, opts.RemoteURL)
}

// envKey maps INSPECTOR_LEVELS__HARD__DECAY_RATE to levels.hard.decay_rate.
// Variables outside the balance tree are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if !strings.HasPrefix(key, "levels.") && !strings.HasPrefix(key, "scoring.") {
		return ""
	}
	return key
}

func hasBalanceEnv() bool {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) && envKey(name) != "" {
			return true
		}
	}
	return false
}

// SaveOverrides persists a full balance document as the override layer.
func SaveOverrides(store SettingsStore, b Balance) error {
	if store == nil {
		return errors.New("config: no settings store")
	}
	if err := b.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("config: encode overrides: %w", err)
	}
	if err := store.SetSetting(OverridesKey, string(data)); err != nil {
		return fmt.Errorf("config: save overrides: %w", err)
	}
	return nil
}

// ClearOverrides removes persisted balance overrides.
func ClearOverrides(store SettingsStore) error {
	if store == nil {
		return errors.New("config: no settings store")
	}
	if err := store.DeleteSetting(OverridesKey); err != nil {
		return fmt.Errorf("config: clear overrides: %w", err)
	}
	return nil
}

// MarshalYAML renders a balance document as YAML.
func MarshalYAML(b Balance) ([]byte, error) {
	return yaml.Marshal(b)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".inspector", filename)
}
