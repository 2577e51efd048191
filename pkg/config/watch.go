package config

import (
	"encoding/json"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchFile watches cfg.Watch.Path for changes and applies updated
// Level/Format values onto level/format atomically via the supplied
// setters, without re-running envconfig or touching injector wiring — this
// is deliberately narrower than full config reload (Non-goal: dynamic type
// registration after container build).
//
// The watched file is expected to be a small JSON document of the shape
// {"level": "debug", "format": "console"}. WatchFile returns immediately
// after starting the background watch goroutine; callers stop it by
// cancelling the returned fsnotify.Watcher via Close.
func WatchFile(cfg *Config, logger *zap.Logger, apply func(level, format string)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(cfg.Watch.Path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				level, format, err := readLevelFormat(cfg.Watch.Path)
				if err != nil {
					logger.Warn("config watch: failed to read updated file",
						zap.String("path", cfg.Watch.Path), zap.Error(err))
					continue
				}

				logger.Info("config watch: applying updated logging settings",
					zap.String("level", level), zap.String("format", format))
				apply(level, format)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch: watcher error", zap.Error(err))
			}
		}
	}()

	return watcher, nil
}

func readLevelFormat(path string) (level, format string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	var doc struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", "", err
	}

	return doc.Level, doc.Format, nil
}
