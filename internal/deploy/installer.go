package deploy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Release is one prebuilt binary of an artifact for a specific platform.
type Release struct {
	URL    string
	SHA256 string
}

// Artifact is one pinned tool the deployment requires. Platforms maps
// "GOOS/GOARCH" keys to prebuilt releases; a platform missing from the map
// has no prebuilt binary and cannot be installed.
type Artifact struct {
	Name      string
	Version   string
	Platforms map[string]Release
}

// Fetcher retrieves an artifact payload. The HTTP implementation is used
// in production; tests inject an in-memory fake.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches artifacts over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

const (
	databaseToolsVersion = "100.9.5"
	mongoshVersion       = "2.3.8"
)

// Manifest returns the six pinned tools the API deployment depends on:
// the MongoDB database tools and the mongosh shell.
func Manifest() []Artifact {
	tools := []struct {
		name    string
		digests map[string]string
	}{
		{"mongodump", map[string]string{
			"linux/amd64":  "e8275676e1d63cccb0abe043daef115e35d05654c19670df004e787e805d73af",
			"linux/arm64":  "9f181ea08a68fd7f1a59d81d0604b0341ebaa3c2b86ad3dc96982d3f3fed0172",
			"darwin/amd64": "f3177f509556671fcec38615871fccfa6b579f0a7c6cb180655e3e2a9fd4f94b",
			"darwin/arm64": "db5e57f2a7021da7160610a8a410c96ae867e3ec0a995feca3ee9f186c569687",
		}},
		{"mongorestore", map[string]string{
			"linux/amd64":  "0f90a21e8e2bd7ba8303e0db28d5340c2d130693a0ab1d2f6f8e1af63eb7fb41",
			"linux/arm64":  "3bc9c290f3abe01d5804098291c51dee99d541209e04dd8c95a9d6944f6b453c",
			"darwin/amd64": "a81cc17196236b11ca1648c5b78a9ca91cafb8e615be41c8d4f979d42da19665",
			"darwin/arm64": "a6c8f5c5ba1672de7f646fc87df6d9fc3e79ee59e7e3b7e455a275ac83f81c9d",
		}},
		{"mongoexport", map[string]string{
			"linux/amd64":  "961c58db56d384319d54137c305c3c75764cd7db408e5315e6ca3401c566e56d",
			"linux/arm64":  "8f6b1488ad270289e9b7466b9cd4a5ed5e614565082f9e0ffab3bb828f2efd89",
			"darwin/amd64": "ad20842c33d6216c877fd7ace0d350b2685ae38797b8d0d75fac5c5accfafa29",
			"darwin/arm64": "3aeffe5803c2af7fa475a37eee24cc1c281c6a7bcecc3458d254af74669b93d8",
		}},
		{"mongoimport", map[string]string{
			"linux/amd64":  "95e24862b5925a32da45d2f9c773a91cc96f78402789442209dd18905b5f7549",
			"linux/arm64":  "de6c1308fdc32178e8f30e0dd9ff7fa88e8ba1e407ed80680ea372867bb8d127",
			"darwin/amd64": "7b39bfdc51a3e9efcdf4e4706b4b58c34a552f149fd2caaf0d832091b8808120",
			"darwin/arm64": "38a9f9b90a6ba0a61b711118e6819a7aefe50409be70dd85de5ddacc6f5abdde",
		}},
		{"bsondump", map[string]string{
			"linux/amd64":  "f6921e98f61e25f9feaeec711764058763bfb223760177d21e9127a02d71c298",
			"linux/arm64":  "bb7d4a66a4d2c9ba52c80417f777eb73f0f76edcb702a81ae6c787cc9b206883",
			"darwin/amd64": "7cbdc6610e4cd680910d6e48e9a1bc39d9b9ea141507ceae5e2c6f5663609119",
			"darwin/arm64": "24468ad9ba204d3ab2478666a9025525287ffbfadf7acafd9220abeff1c9b72a",
		}},
	}

	platformName := map[string][2]string{
		"linux/amd64":  {"linux", "x86_64"},
		"linux/arm64":  {"linux", "aarch64"},
		"darwin/amd64": {"macos", "x86_64"},
		"darwin/arm64": {"macos", "arm64"},
	}

	manifest := make([]Artifact, 0, len(tools)+1)
	for _, t := range tools {
		releases := make(map[string]Release, len(t.digests))
		for key, digest := range t.digests {
			names := platformName[key]
			releases[key] = Release{
				URL: fmt.Sprintf(
					"https://fastdl.mongodb.org/tools/db/mongodb-database-tools-%s-%s-%s/bin/%s",
					names[0], names[1], databaseToolsVersion, t.name),
				SHA256: digest,
			}
		}
		manifest = append(manifest, Artifact{Name: t.name, Version: databaseToolsVersion, Platforms: releases})
	}

	mongoshDigests := map[string]string{
		"linux/amd64":  "bd2e58dd2256b29e9a3c389f206220ee6bbbda0a4e104373bd9eef1c901f08b5",
		"linux/arm64":  "ea919b513505ed21540398105bd195707666bdf242b93c697183921ac6d06d6f",
		"darwin/amd64": "cb68f627c22ef992f4e81cab3450ecbbe87eef8fab1d1225c50940ca5f07e7ca",
		"darwin/arm64": "f058a00a8f9795481acd32700afc2011f36fb146ac8b3604103a4a1ba05fe533",
	}
	mongoshReleases := make(map[string]Release, len(mongoshDigests))
	for key, digest := range mongoshDigests {
		names := platformName[key]
		mongoshReleases[key] = Release{
			URL: fmt.Sprintf(
				"https://downloads.mongodb.com/compass/mongosh-%s-%s-%s/bin/mongosh",
				mongoshVersion, names[0], names[1]),
			SHA256: digest,
		}
	}
	manifest = append(manifest, Artifact{Name: "mongosh", Version: mongoshVersion, Platforms: mongoshReleases})

	return manifest
}

// Installer downloads the manifest's prebuilt binaries into BinDir,
// verifying each digest. A platform with no prebuilt release is a fatal
// error; artifacts are never compiled from source.
type Installer struct {
	Fetcher  Fetcher
	BinDir   string
	Platform string // "GOOS/GOARCH"; empty means the current platform
}

func (i *Installer) platform() string {
	if i.Platform != "" {
		return i.Platform
	}
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Run installs every artifact in order, stopping at the first failure.
func (i *Installer) Run(ctx context.Context, manifest []Artifact) error {
	if err := os.MkdirAll(i.BinDir, 0o755); err != nil {
		return fmt.Errorf("create bin dir: %w", err)
	}

	platform := i.platform()
	for _, a := range manifest {
		release, ok := a.Platforms[platform]
		if !ok {
			return fmt.Errorf("install %s %s: no prebuilt binary for %s", a.Name, a.Version, platform)
		}
		data, err := i.Fetcher.Fetch(ctx, release.URL)
		if err != nil {
			return fmt.Errorf("install %s %s: %w", a.Name, a.Version, err)
		}
		sum := sha256.Sum256(data)
		if got := hex.EncodeToString(sum[:]); got != release.SHA256 {
			return fmt.Errorf("install %s %s: digest mismatch: got %s, want %s", a.Name, a.Version, got, release.SHA256)
		}
		dest := filepath.Join(i.BinDir, a.Name)
		if err := os.WriteFile(dest, data, 0o755); err != nil {
			return fmt.Errorf("install %s %s: %w", a.Name, a.Version, err)
		}
	}
	return nil
}
