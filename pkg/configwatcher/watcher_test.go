package configwatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfigFile(t *testing.T, path string, threshold int) {
	t.Helper()
	data := fmt.Sprintf(`server:
  port: "8080"
  mode: debug
quiz:
  default_pass_threshold: %d
`, threshold)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestWatchConfigReloadsAfterWrite(t *testing.T) {
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, 60)

	reloads := make(chan *config.Config, 4)
	go WatchConfig(path, func(cfg interface{}) {
		if c, ok := cfg.(*config.Config); ok {
			reloads <- c
		}
	})

	// Give the watcher time to register before the first write.
	time.Sleep(300 * time.Millisecond)

	writeConfigFile(t, path, 75)

	select {
	case cfg := <-reloads:
		assert.InDelta(t, 75, cfg.Quiz.DefaultPassThreshold, 0.01)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload never fired after a write")
	}

	// A burst of writes within the debounce window collapses into one
	// reload carrying the final contents.
	writeConfigFile(t, path, 80)
	writeConfigFile(t, path, 85)

	select {
	case cfg := <-reloads:
		assert.InDelta(t, 85, cfg.Quiz.DefaultPassThreshold, 0.01)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload never fired after the second burst")
	}
}
