package config_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/smartystreets/goconvey/convey"

	"github.com/vovakirdan/inspector/internal/config"
)

// memStore is an in-memory SettingsStore.
type memStore struct {
	values map[string]string
	err    error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Setting(key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memStore) SetSetting(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memStore) DeleteSetting(key string) error {
	delete(s.values, key)
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// isolate points HOME at an empty directory so no user balance file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLayers(t *testing.T) {
	home := isolate(t)
	ctx := context.Background()

	convey.Convey("Given the balance loader", t, func() {
		convey.Convey("When nothing overrides the defaults", func() {
			loaded, err := config.Load(ctx, config.LoadOptions{Logger: quietLogger()})

			convey.Convey("Then the built-in balance is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.Balance, convey.ShouldResemble, config.DefaultBalance())
				convey.So(loaded.Sources, convey.ShouldResemble, []string{"defaults"})
				convey.So(loaded.AdminPasswordHash, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When an explicit file sets one field", func() {
			path := writeFile(t, t.TempDir(), "custom.yaml", "levels:\n  hard:\n    decay_rate: 0.5\n")
			loaded, err := config.Load(ctx, config.LoadOptions{Path: path, Logger: quietLogger()})

			convey.Convey("Then only that field changes", func() {
				convey.So(err, convey.ShouldBeNil)
				hard := loaded.Balance.Tuning(config.LevelHard)
				convey.So(hard.DecayRate, convey.ShouldEqual, 0.5)
				convey.So(hard.PenaltyOnFail, convey.ShouldEqual, 20)
				convey.So(hard.Spawn.Wildcard, convey.ShouldEqual, 20)
				convey.So(loaded.Sources, convey.ShouldResemble, []string{"defaults", path})
			})
		})

		convey.Convey("When the explicit file is missing", func() {
			_, err := config.Load(ctx, config.LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml"), Logger: quietLogger()})
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the user balance file exists", func() {
			writeFile(t, home, filepath.Join(".inspector", "balance.yaml"), "levels:\n  easy:\n    penalty_on_fail: 12\n")
			defer os.Remove(filepath.Join(home, ".inspector", "balance.yaml"))

			loaded, err := config.Load(ctx, config.LoadOptions{Logger: quietLogger()})
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Balance.Tuning(config.LevelEasy).PenaltyOnFail, convey.ShouldEqual, 12)
		})

		convey.Convey("When persisted overrides exist", func() {
			store := newMemStore()
			b := config.DefaultBalance()
			normal := b.Tuning(config.LevelNormal)
			normal.RecoverOnSuccess = 5
			b.SetTuning(config.LevelNormal, normal)
			convey.So(config.SaveOverrides(store, b), convey.ShouldBeNil)

			path := writeFile(t, t.TempDir(), "file.yaml", "levels:\n  normal:\n    recover_on_success: 4\n")
			loaded, err := config.Load(ctx, config.LoadOptions{Path: path, Store: store, Logger: quietLogger()})

			convey.Convey("Then they win over the balance file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.Balance.Tuning(config.LevelNormal).RecoverOnSuccess, convey.ShouldEqual, 5)
				convey.So(loaded.Sources, convey.ShouldContain, "overrides")
			})

			convey.Convey("Then clearing them restores the file value", func() {
				convey.So(config.ClearOverrides(store), convey.ShouldBeNil)
				loaded, err := config.Load(ctx, config.LoadOptions{Path: path, Store: store, Logger: quietLogger()})
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.Balance.Tuning(config.LevelNormal).RecoverOnSuccess, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the settings store fails", func() {
			store := newMemStore()
			store.err = errors.New("disk gone")
			_, err := config.Load(ctx, config.LoadOptions{Store: store, Logger: quietLogger()})
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When persisted overrides would break the balance", func() {
			store := newMemStore()
			_ = store.SetSetting(config.OverridesKey, "scoring:\n  tick_ms: 0\n")
			_, err := config.Load(ctx, config.LoadOptions{Store: store, Logger: quietLogger()})
			convey.So(errors.Is(err, config.ErrInvalidBalance), convey.ShouldBeTrue)
		})
	})
}

func TestLoadRemote(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	convey.Convey("Given a remote config endpoint", t, func() {
		convey.Convey("When it serves a password hash and a patch", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{
					"admin_password_hash": "$2a$10$abcdefghijklmnopqrstuu",
					"balance": {"levels": {"very_easy": {"penalty_on_fail": 3}}, "scoring": {"combo_bonus": 25}}
				}`)
			}))
			defer srv.Close()

			store := newMemStore()
			b := config.DefaultBalance()
			b.Scoring.ComboBonus = 30
			convey.So(config.SaveOverrides(store, b), convey.ShouldBeNil)

			loaded, err := config.Load(ctx, config.LoadOptions{
				Store:     store,
				RemoteURL: srv.URL,
				Logger:    quietLogger(),
			})

			convey.Convey("Then the patch wins over persisted overrides", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.AdminPasswordHash, convey.ShouldEqual, "$2a$10$abcdefghijklmnopqrstuu")
				convey.So(loaded.Balance.Tuning(config.LevelVeryEasy).PenaltyOnFail, convey.ShouldEqual, 3)
				convey.So(loaded.Balance.Tuning(config.LevelVeryEasy).DecayRate, convey.ShouldEqual, 0.1)
				convey.So(loaded.Balance.Scoring.ComboBonus, convey.ShouldEqual, 25)
				convey.So(loaded.Sources, convey.ShouldResemble, []string{"defaults", "overrides", "remote"})
			})

			convey.Convey("Then the local layer keeps the persisted value", func() {
				convey.So(loaded.Local.Scoring.ComboBonus, convey.ShouldEqual, 30)
				convey.So(loaded.Local.Tuning(config.LevelVeryEasy).PenaltyOnFail, convey.ShouldEqual,
					config.DefaultBalance().Tuning(config.LevelVeryEasy).PenaltyOnFail)
			})
		})

		for _, patch := range []struct {
			name string
			body string
		}{
			{"a negative value", `{"levels": {"hard": {"decay_rate": -1}}}`},
			{"a value of the wrong type", `{"levels": {"hard": {"decay_rate": "fast"}}}`},
		} {
			convey.Convey("When the patch carries "+patch.name, func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, _ = io.WriteString(w, `{"admin_password_hash": "$2a$10$abcdefghijklmnopqrstuu", "balance": `+patch.body+`}`)
				}))
				defer srv.Close()

				store := newMemStore()
				b := config.DefaultBalance()
				b.Scoring.ComboBonus = 30
				convey.So(config.SaveOverrides(store, b), convey.ShouldBeNil)

				loaded, err := config.Load(ctx, config.LoadOptions{
					Store:     store,
					RemoteURL: srv.URL,
					Logger:    quietLogger(),
				})

				convey.Convey("Then the patch is ignored and the lower layers stand", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(loaded.Balance, convey.ShouldResemble, b)
					convey.So(loaded.Sources, convey.ShouldResemble, []string{"defaults", "overrides"})
				})

				convey.Convey("Then the password hash is still used", func() {
					convey.So(loaded.AdminPasswordHash, convey.ShouldEqual, "$2a$10$abcdefghijklmnopqrstuu")
				})
			})
		}

		convey.Convey("When it fails", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer srv.Close()

			loaded, err := config.Load(ctx, config.LoadOptions{RemoteURL: srv.URL, Logger: quietLogger()})

			convey.Convey("Then the error is swallowed and no password is known", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loaded.Balance, convey.ShouldResemble, config.DefaultBalance())
				convey.So(loaded.AdminPasswordHash, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When it serves garbage", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "<html>")
			}))
			defer srv.Close()

			_, err := config.FetchRemote(ctx, srv.Client(), srv.URL)
			convey.So(err, convey.ShouldNotBeNil)

			loaded, err := config.Load(ctx, config.LoadOptions{RemoteURL: srv.URL, Logger: quietLogger()})
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Sources, convey.ShouldResemble, []string{"defaults"})
		})
	})
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("INSPECTOR_LEVELS__HARD__PENALTY_ON_FAIL", "25")
	t.Setenv("INSPECTOR_SCORING__BASE_POINTS", "50")
	t.Setenv("INSPECTOR_REMOTE", "ignored")

	convey.Convey("Given balance environment variables", t, func() {
		loaded, err := config.Load(context.Background(), config.LoadOptions{Logger: quietLogger()})

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Balance.Tuning(config.LevelHard).PenaltyOnFail, convey.ShouldEqual, 25)
			convey.So(loaded.Balance.Scoring.BasePoints, convey.ShouldEqual, 50)
			convey.So(loaded.Sources, convey.ShouldContain, "env")
		})

		convey.Convey("Then the local layer does not see them", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Local, convey.ShouldResemble, config.DefaultBalance())
		})
	})
}
