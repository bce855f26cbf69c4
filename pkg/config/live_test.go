package config

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLive_Accessors(t *testing.T) {
	cfg := Defaults()
	cfg.Upstream.APIKey = "nvapi-1"
	live := NewLive(cfg, "")

	if live.BaseURL() != DefaultUpstreamBaseURL {
		t.Errorf("BaseURL() = %v", live.BaseURL())
	}
	if live.DefaultAPIKey() != "nvapi-1" {
		t.Errorf("DefaultAPIKey() = %v", live.DefaultAPIKey())
	}
	if live.DefaultModel() != DefaultModel {
		t.Errorf("DefaultModel() = %v", live.DefaultModel())
	}

	next := Defaults()
	next.Upstream.DefaultModel = "other/model"
	live.Set(next)
	if live.DefaultModel() != "other/model" {
		t.Errorf("DefaultModel() after Set = %v", live.DefaultModel())
	}
}

func TestLive_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nimproxy.yaml", "upstream:\n  default_model: first\n")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	live := NewLive(cfg, path)

	writeFile(t, dir, "nimproxy.yaml", "upstream:\n  default_model: second\n")
	if err := live.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if live.DefaultModel() != "second" {
		t.Errorf("DefaultModel() = %v, want second", live.DefaultModel())
	}

	writeFile(t, dir, "nimproxy.yaml", "upstream:\n  base_url: \"not a url\"\n")
	if err := live.Reload(); err == nil {
		t.Fatal("Reload() expected validation error")
	}
	if live.DefaultModel() != "second" {
		t.Errorf("failed reload must keep previous config, got %v", live.DefaultModel())
	}
}

func TestLive_ConcurrentAccess(t *testing.T) {
	live := NewLive(Defaults(), "")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = live.DefaultAPIKey()
				_ = live.BaseURL()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				live.Set(Defaults())
			}
		}()
	}
	wg.Wait()
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nimproxy.yaml", "upstream:\n  default_model: before\n")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	live := NewLive(cfg, path)

	w, err := NewWatcher(live, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	reloaded := make(chan error, 10)
	w.OnReload = func(err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, dir, "unrelated.yaml", "x: 1\n")
	writeFile(t, dir, "nimproxy.yaml", "upstream:\n  default_model: after\n")

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if live.DefaultModel() != "after" {
		t.Errorf("DefaultModel() = %v, want after", live.DefaultModel())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_RequiresPath(t *testing.T) {
	if _, err := NewWatcher(NewLive(Defaults(), ""), 0, nil); err == nil {
		t.Error("NewWatcher() expected error without a file")
	}
	if _, err := NewWatcher(NewLive(Defaults(), filepath.Join(t.TempDir(), "x.yaml")), 0, nil); err != nil {
		t.Errorf("NewWatcher() error = %v", err)
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	calls := 0
	for i := 0; i < 5; i++ {
		d.Trigger(func() {
			mu.Lock()
			calls++
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	mu.Unlock()

	d.Stop()
	d.Trigger(func() { t.Error("callback after Stop") })
	time.Sleep(60 * time.Millisecond)
}
