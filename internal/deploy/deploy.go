package deploy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/threadline-io/threadline/internal/fallback"
)

// Options configures a pipeline run.
type Options struct {
	// Root is the deploy root holding schema documents and the fallback
	// definition.
	Root string
	// BinDir receives the installed tool binaries.
	BinDir string
	// SkipInstall bypasses the dependency installer, for hosts that manage
	// the tools out of band.
	SkipInstall bool
	// Fetcher downloads artifact payloads. Required unless SkipInstall.
	Fetcher Fetcher
	// Manifest overrides the pinned artifact set; nil means Manifest().
	Manifest []Artifact
}

// Pipeline runs the deployment steps in order.
type Pipeline struct {
	logger *zap.Logger
	opts   Options
}

// New creates a pipeline.
func New(logger *zap.Logger, opts Options) *Pipeline {
	if opts.Manifest == nil {
		opts.Manifest = Manifest()
	}
	return &Pipeline{logger: logger, opts: opts}
}

// Run executes probe, install, migrate, and fallback synthesis. The first
// failing step aborts the run and its error is returned unchanged in
// meaning, wrapped with the step name.
func (p *Pipeline) Run(ctx context.Context) error {
	probe, err := Probe(p.opts.Root, p.opts.Manifest)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	installed := 0
	for _, path := range probe.Tools {
		if path != "" {
			installed++
		}
	}
	p.logger.Info("environment probe",
		zap.String("go", probe.GoVersion),
		zap.String("os", probe.OS),
		zap.String("arch", probe.Arch),
		zap.String("root", probe.Root),
		zap.Int("tools_on_path", installed),
	)

	if p.opts.SkipInstall {
		p.logger.Info("dependency install skipped")
	} else {
		installer := &Installer{Fetcher: p.opts.Fetcher, BinDir: p.opts.BinDir}
		if err := installer.Run(ctx, p.opts.Manifest); err != nil {
			return fmt.Errorf("install: %w", err)
		}
		p.logger.Info("dependencies installed",
			zap.Int("artifacts", len(p.opts.Manifest)),
			zap.String("bin_dir", p.opts.BinDir),
		)
	}

	migration, err := Migrate(p.opts.Root)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	p.logger.Info("compatibility migration",
		zap.Strings("applied", migration.Applied),
		zap.Strings("skipped", migration.Skipped),
	)

	path, err := fallback.Synthesize(p.opts.Root)
	if err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	p.logger.Info("fallback definition written", zap.String("path", path))

	return nil
}
