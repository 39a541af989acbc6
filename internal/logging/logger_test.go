package logging

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeConfig(t *testing.T, ws, body string) {
	t.Helper()
	dir := filepath.Join(ws, ".courtside")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestInitializeWithoutConfigIsNoop(t *testing.T) {
	ws := t.TempDir()
	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	if IsDebugMode() {
		t.Error("debug mode should be off without config")
	}
	// Logger must be safe to use even when disabled.
	Get(CategoryStats).Info("ignored")
	if _, err := os.Stat(filepath.Join(ws, ".courtside", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not be created in production mode")
	}
}

func TestDebugModeWritesCategoryFile(t *testing.T) {
	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	Stats("gamelog fetched player_id=%d", 201939)

	entries, err := os.ReadDir(filepath.Join(ws, ".courtside", "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	found := false
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one log file in debug mode")
	}
}

// Exercises logging concurrently with config reloads; meaningful under
// the race detector, which is how the watcher goroutine interacts with
// live log calls.
func TestReloadWhileLogging(t *testing.T) {
	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			Stats("log line %d", i)
			StatsDebug("debug line %d", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			level := "debug"
			if i%2 == 0 {
				level = "warn"
			}
			writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: "+level+"\n")
			if err := ReloadConfig(); err != nil {
				t.Errorf("ReloadConfig: %v", err)
			}
		}
	}()
	wg.Wait()
}

func TestCategoryFilter(t *testing.T) {
	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: info\n  categories:\n    verdict: false\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	if IsCategoryEnabled(CategoryVerdict) {
		t.Error("verdict category should be disabled")
	}
	if !IsCategoryEnabled(CategoryStats) {
		t.Error("stats category should default to enabled")
	}
}
