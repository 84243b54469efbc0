package deploy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// fakeFetcher serves payloads from memory and records the URLs it saw.
type fakeFetcher struct {
	payloads map[string][]byte
	fetched  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	data, ok := f.payloads[url]
	if !ok {
		return nil, errors.New("unknown url " + url)
	}
	return data, nil
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func testManifest(platform string, n int) ([]Artifact, *fakeFetcher) {
	f := &fakeFetcher{payloads: map[string][]byte{}}
	manifest := make([]Artifact, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("tool%d", i)
		url := "https://example.invalid/" + name
		payload := []byte("binary " + name)
		f.payloads[url] = payload
		manifest = append(manifest, Artifact{
			Name:    name,
			Version: "1.0.0",
			Platforms: map[string]Release{
				platform: {URL: url, SHA256: digestOf(payload)},
			},
		})
	}
	return manifest, f
}

func TestInstallerWritesVerifiedBinaries(t *testing.T) {
	manifest, fetcher := testManifest("linux/amd64", 3)
	inst := &Installer{Fetcher: fetcher, BinDir: t.TempDir(), Platform: "linux/amd64"}

	if err := inst.Run(context.Background(), manifest); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	for _, a := range manifest {
		path := filepath.Join(inst.BinDir, a.Name)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", a.Name, err)
		}
		if info.Mode()&0o100 == 0 {
			t.Errorf("%s is not executable: %v", a.Name, info.Mode())
		}
	}
}

func TestInstallerRejectsDigestMismatch(t *testing.T) {
	manifest, fetcher := testManifest("linux/amd64", 2)
	manifest[1].Platforms["linux/amd64"] = Release{
		URL:    "https://example.invalid/tool1",
		SHA256: digestOf([]byte("something else")),
	}
	inst := &Installer{Fetcher: fetcher, BinDir: t.TempDir(), Platform: "linux/amd64"}

	err := inst.Run(context.Background(), manifest)
	if err == nil {
		t.Fatal("Run() should fail on digest mismatch")
	}
	// tool0 was installed before the failure; nothing after tool1 ran.
	if _, statErr := os.Stat(filepath.Join(inst.BinDir, "tool0")); statErr != nil {
		t.Errorf("tool0 missing: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(inst.BinDir, "tool1")); !os.IsNotExist(statErr) {
		t.Error("tool1 should not have been written")
	}
}

func TestInstallerFailsFastOnUnsupportedPlatform(t *testing.T) {
	manifest, fetcher := testManifest("linux/amd64", 3)
	inst := &Installer{Fetcher: fetcher, BinDir: t.TempDir(), Platform: "plan9/mips"}

	err := inst.Run(context.Background(), manifest)
	if err == nil {
		t.Fatal("Run() should fail when no prebuilt binary exists")
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("fetched %v before failing, want nothing", fetcher.fetched)
	}
}

func TestInstallerStopsAtFirstFetchError(t *testing.T) {
	manifest, fetcher := testManifest("linux/amd64", 3)
	delete(fetcher.payloads, "https://example.invalid/tool1")
	inst := &Installer{Fetcher: fetcher, BinDir: t.TempDir(), Platform: "linux/amd64"}

	err := inst.Run(context.Background(), manifest)
	if err == nil {
		t.Fatal("Run() should fail on fetch error")
	}
	if len(fetcher.fetched) != 2 {
		t.Errorf("fetched %d urls, want 2 (fail before tool2)", len(fetcher.fetched))
	}
}

func TestManifestShape(t *testing.T) {
	manifest := Manifest()
	if len(manifest) != 6 {
		t.Fatalf("manifest has %d artifacts, want 6", len(manifest))
	}
	names := map[string]bool{}
	for _, a := range manifest {
		names[a.Name] = true
		if a.Version == "" {
			t.Errorf("%s has no version", a.Name)
		}
		if len(a.Platforms) == 0 {
			t.Errorf("%s has no prebuilt releases", a.Name)
		}
		for key, rel := range a.Platforms {
			if rel.URL == "" || len(rel.SHA256) != 64 {
				t.Errorf("%s %s release is incomplete: %+v", a.Name, key, rel)
			}
		}
	}
	for _, want := range []string{"mongodump", "mongorestore", "mongoexport", "mongoimport", "bsondump", "mongosh"} {
		if !names[want] {
			t.Errorf("manifest missing %s", want)
		}
	}
}
