// Package deploy implements the deployment pipeline: environment probe,
// pinned tool installation, schema compatibility migration, and fallback
// service synthesis. Steps run in a fixed order and the first failure
// aborts the run; there are no retries and no rollback.
package deploy

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ProbeResult captures the deployment environment.
type ProbeResult struct {
	GoVersion string
	OS        string
	Arch      string
	Root      string
	// Tools maps each manifest tool name to its path on PATH, or "" when
	// the tool is not yet installed.
	Tools map[string]string
}

// Probe inspects the runtime and the deploy root. It fails only when the
// root is missing or not a directory; absent tools are reported, not fatal.
func Probe(root string, manifest []Artifact) (ProbeResult, error) {
	res := ProbeResult{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Root:      root,
		Tools:     make(map[string]string, len(manifest)),
	}

	info, err := os.Stat(root)
	if err != nil {
		return res, fmt.Errorf("deploy root %s: %w", root, err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("deploy root %s is not a directory", root)
	}

	for _, a := range manifest {
		path, err := exec.LookPath(a.Name)
		if err != nil {
			path = ""
		}
		res.Tools[a.Name] = path
	}
	return res, nil
}
