package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/threadline-io/threadline/internal/deploy"
	"github.com/threadline-io/threadline/internal/observability"
)

func (c *CLI) newDeployCmd() *cobra.Command {
	var (
		root        string
		binDir      string
		skipInstall bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deployment pipeline",
		Long: `Run the deployment pipeline: environment probe, pinned tool
installation, schema compatibility migration, and fallback service
synthesis. Steps run in order and the first failure aborts the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if binDir == "" {
				binDir = filepath.Join(root, "bin")
			}
			return c.runDeploy(root, binDir, skipInstall)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "deploy root")
	cmd.Flags().StringVar(&binDir, "bin-dir", "", "directory for installed tools (default: <root>/bin)")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "skip the dependency installer")

	return cmd
}

func (c *CLI) runDeploy(root, binDir string, skipInstall bool) error {
	logger, err := observability.NewLogger(c.cfg.Logging.Level, c.cfg.Logging.Format)
	if err != nil {
		c.exitCode = ExitValidation
		return err
	}
	defer func() { _ = logger.Sync() }()

	c.debugf("deploy root: %s, bin dir: %s\n", root, binDir)

	p := deploy.New(logger, deploy.Options{
		Root:        root,
		BinDir:      binDir,
		SkipInstall: skipInstall,
		Fetcher:     &deploy.HTTPFetcher{},
	})
	if err := p.Run(context.Background()); err != nil {
		c.exitCode = ExitDeploy
		return err
	}

	c.println("Deployment completed successfully")
	return nil
}
