package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/zwavetools/zwconf/pkg/config"
	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/reconcile"
)

// testCLI builds a CLI wired to a temp corpus with one device that
// imports a shared template.
func testCLI(t *testing.T) (*CLI, *resolveOpts, string) {
	t.Helper()
	devicesDir := t.TempDir()
	outputDir := t.TempDir()

	mustWrite(t, filepath.Join(devicesDir, "templates", "dimmer.json"),
		`{"level_range": {"minValue": 0, "maxValue": 99}}`)
	mustWrite(t, filepath.Join(devicesDir, "0x027a", "zen77.json"), `{
		// Zooz ZEN77 S2 Dimmer
		"label": "ZEN77",
		"range": {"$import": "~/templates/dimmer.json#level_range"}
	}`)

	c := New(io.Discard, LogInfo)
	c.cfg = &config.Config{
		DevicesDir: devicesDir,
		OutputDir:  outputDir,
		Cache:      config.CacheConfig{Backend: config.BackendNone},
	}
	opts := &resolveOpts{yes: true}
	return c, opts, devicesDir
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDeviceLifecycle(t *testing.T) {
	c, opts, devicesDir := testCLI(t)

	outcome, path, err := c.resolveDevice(opts, "0x027a", "zen77")
	if err != nil {
		t.Fatalf("resolveDevice error: %v", err)
	}
	if outcome.Status != reconcile.StatusCreated || outcome.Version != 1 {
		t.Errorf("first run = %s v%d, want created v1", outcome.Status, outcome.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	artifact, found, err := reconcile.LoadArtifact(path)
	if err != nil || !found {
		t.Fatalf("LoadArtifact = found=%v err=%v", found, err)
	}
	rng, ok := artifact.Get("range")
	if !ok {
		t.Fatal("artifact lost the imported field")
	}
	expanded, ok := rng.(document.Object)
	if !ok {
		t.Fatalf("range = %T, want expanded object", rng)
	}
	if expanded.Has("$import") {
		t.Error("artifact still contains an import reference")
	}

	// Second run: nothing changed.
	outcome, _, err = c.resolveDevice(opts, "0x027a", "zen77")
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if outcome.Status != reconcile.StatusUnchanged || outcome.Version != 1 {
		t.Errorf("second run = %s v%d, want unchanged v1", outcome.Status, outcome.Version)
	}

	// Template edit propagates and bumps the version.
	mustWrite(t, filepath.Join(devicesDir, "templates", "dimmer.json"),
		`{"level_range": {"minValue": 0, "maxValue": 255}}`)
	outcome, _, err = c.resolveDevice(opts, "0x027a", "zen77")
	if err != nil {
		t.Fatalf("third run error: %v", err)
	}
	if outcome.Status != reconcile.StatusUpdated || outcome.Version != 2 {
		t.Errorf("third run = %s v%d, want updated v2", outcome.Status, outcome.Version)
	}
	if len(outcome.Diff) == 0 {
		t.Error("updated outcome carries no diff")
	}
}

func TestDeciderPolicy(t *testing.T) {
	c := New(io.Discard, LogInfo)

	if _, ok := c.decider(&resolveOpts{yes: true}).(reconcile.AcceptAll); !ok {
		t.Error("--yes did not select the accept-all policy")
	}
	if _, ok := c.decider(&resolveOpts{silent: true}).(reconcile.AcceptAll); !ok {
		t.Error("--silent did not select the accept-all policy")
	}
	if _, ok := c.decider(&resolveOpts{}).(reconcile.AcceptAll); ok {
		t.Error("default policy must prompt, not accept all")
	}
}

func TestResolveDeviceUnknown(t *testing.T) {
	c, opts, _ := testCLI(t)

	if _, _, err := c.resolveDevice(opts, "0x027a", "nope"); err == nil {
		t.Error("resolveDevice accepted a missing device")
	}
	if _, _, err := c.resolveDevice(opts, "0xffff", "zen77"); err == nil {
		t.Error("resolveDevice accepted a missing manufacturer")
	}
}
