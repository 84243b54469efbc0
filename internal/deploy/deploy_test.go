package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/threadline-io/threadline/internal/fallback"
)

func TestPipelineFullRun(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "models/order_v2.yaml", "order: v2\n")
	writeFixture(t, root, "schemas/common_v2.yaml", "common: v2\n")
	writeFixture(t, root, "schemas/order_v2.yaml", "order-schema: v2\n")

	// The pipeline's installer targets the runtime platform.
	platform := (&Installer{}).platform()
	manifest, fetcher := testManifest(platform, 6)
	binDir := filepath.Join(root, "bin")
	p := New(zap.NewNop(), Options{
		Root:     root,
		BinDir:   binDir,
		Fetcher:  fetcher,
		Manifest: manifest,
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// All three migrations applied.
	if got := readFixture(t, root, "models/order.yaml"); got != "order: v2\n" {
		t.Errorf("models/order.yaml = %q", got)
	}
	if got := readFixture(t, root, "schemas/common.yaml"); got != "common: v2\n" {
		t.Errorf("schemas/common.yaml = %q", got)
	}
	if got := readFixture(t, root, "schemas/order.yaml"); got != "order-schema: v2\n" {
		t.Errorf("schemas/order.yaml = %q", got)
	}

	// All six binaries installed.
	entries, err := os.ReadDir(binDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Errorf("installed %d binaries, want 6", len(entries))
	}

	// Fallback definition written and loadable.
	def, err := fallback.Load(filepath.Join(root, fallback.FileName))
	if err != nil {
		t.Fatalf("load fallback: %v", err)
	}
	if len(def.Routes) == 0 {
		t.Error("fallback definition has no routes")
	}
}

func TestPipelinePartialMigration(t *testing.T) {
	// Only the order model revision shipped; the schema pairs are absent.
	root := t.TempDir()
	writeFixture(t, root, "models/order_v2.yaml", "order: v2\n")
	writeFixture(t, root, "schemas/common.yaml", "common: v1\n")

	p := New(zap.NewNop(), Options{Root: root, SkipInstall: true})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := readFixture(t, root, "models/order.yaml"); got != "order: v2\n" {
		t.Errorf("models/order.yaml = %q", got)
	}
	if got := readFixture(t, root, "schemas/common.yaml"); got != "common: v1\n" {
		t.Errorf("schemas/common.yaml overwritten: %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "schemas/order.yaml")); !os.IsNotExist(err) {
		t.Error("schemas/order.yaml should not exist")
	}
	if _, err := os.Stat(filepath.Join(root, fallback.FileName)); err != nil {
		t.Errorf("fallback definition missing: %v", err)
	}
}

func TestPipelineStopsOnInstallFailure(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "models/order_v2.yaml", "order: v2\n")

	manifest, fetcher := testManifest("plan9/mips", 1)
	p := New(zap.NewNop(), Options{
		Root:     root,
		BinDir:   filepath.Join(root, "bin"),
		Fetcher:  fetcher,
		Manifest: manifest,
	})

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail when install fails")
	}

	// Later steps never ran.
	if _, err := os.Stat(filepath.Join(root, "models/order.yaml")); !os.IsNotExist(err) {
		t.Error("migration ran after install failure")
	}
	if _, err := os.Stat(filepath.Join(root, fallback.FileName)); !os.IsNotExist(err) {
		t.Error("fallback synthesis ran after install failure")
	}
}

func TestPipelineMissingRoot(t *testing.T) {
	p := New(zap.NewNop(), Options{Root: "/does/not/exist", SkipInstall: true})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail on a missing deploy root")
	}
}

func TestProbeReportsEnvironment(t *testing.T) {
	root := t.TempDir()
	res, err := Probe(root, Manifest())
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if res.GoVersion == "" || res.OS == "" || res.Arch == "" {
		t.Errorf("incomplete probe: %+v", res)
	}
	if len(res.Tools) != 6 {
		t.Errorf("probed %d tools, want 6", len(res.Tools))
	}
}
