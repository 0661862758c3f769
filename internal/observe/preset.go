package observe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LoadPreset reads a YAML file holding any subset of the configuration keys.
// Unknown keys are ignored.
func LoadPreset(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading preset: %w", err)
	}
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return o, nil
}

// PresetWatcher re-applies a preset file to a State whenever it changes.
// Changes are debounced so an editor's write-rename sequence applies once.
type PresetWatcher struct {
	path     string
	state    *State
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewPresetWatcher watches the directory containing path, since editors
// commonly replace files rather than write them in place.
func NewPresetWatcher(path string, state *State, logger *slog.Logger) (*PresetWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating preset watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &PresetWatcher{
		path:     abs,
		state:    state,
		logger:   logger,
		watcher:  w,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Run applies changes until ctx is cancelled, then closes the watcher.
func (pw *PresetWatcher) Run(ctx context.Context) {
	defer pw.watcher.Close()
	pw.logger.Info("preset watcher started", "path", pw.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(pw.debounce, pw.reload)

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Error("preset watcher error", "error", err)
		}
	}
}

func (pw *PresetWatcher) reload() {
	opts, err := LoadPreset(pw.path)
	if err != nil {
		pw.logger.Error("preset reload failed", "error", err)
		return
	}
	cfg := pw.state.Update(opts)
	pw.logger.Info("preset applied", "path", pw.path, "config", cfg)
}
