package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"fitnessai-client-go/internal/domain/session"
	platformtesting "fitnessai-client-go/internal/platform/testing"
)

func TestNewWiresComponents(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	data, err := yaml.Marshal(cfg)
	platformtesting.AssertNoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	platformtesting.AssertNoError(t, os.WriteFile(path, data, 0o644))

	app, err := New(path)
	platformtesting.AssertNoError(t, err)
	t.Cleanup(func() {
		_ = app.Close(context.Background())
	})

	if app.API == nil || app.Session == nil || app.Push == nil || app.Store == nil || app.Bus == nil {
		t.Fatal("incomplete wiring")
	}
	platformtesting.AssertEqual(t, "memory", app.Config.Storage.Driver)
	platformtesting.AssertEqual(t, session.StateUnauthenticated, app.Session.State())

	// Nothing persisted yet, so restore is a clean no-op.
	restored, err := app.Session.Restore(context.Background())
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, false, restored)
}

func TestNewRejectsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "device:\n  platform: blackberry\n"
	platformtesting.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))

	if _, err := New(path); err == nil {
		t.Fatal("expected config validation error")
	}
}
