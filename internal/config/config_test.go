package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyReloadSwapsReloadableSections(t *testing.T) {
	cfg := &Config{}
	cfg.Quiz.DefaultPassThreshold = 60
	cfg.RateLimit.MaxRequests = 100
	cfg.Server.Port = "8080"

	newCfg := &Config{}
	newCfg.Quiz.DefaultPassThreshold = 75
	newCfg.RateLimit.MaxRequests = 200
	newCfg.Server.Port = "9090"

	cfg.ApplyReload(newCfg)

	assert.Equal(t, 75.0, cfg.DefaultPassThreshold())
	assert.Equal(t, 200, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "8080", cfg.Server.Port, "sections tied to open resources keep boot values")
}

func TestDefaultPassThresholdSafeDuringReload(t *testing.T) {
	cfg := &Config{}
	cfg.Quiz.DefaultPassThreshold = 60

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				v := cfg.DefaultPassThreshold()
				assert.GreaterOrEqual(t, v, 60.0)
				assert.LessOrEqual(t, v, 80.0)
			}
		}()
	}

	for j := 0; j < 500; j++ {
		newCfg := &Config{}
		newCfg.Quiz.DefaultPassThreshold = float64(60 + j%21)
		cfg.ApplyReload(newCfg)
	}
	wg.Wait()
}
