package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/threadline-io/threadline/internal/fallback"
	"github.com/threadline-io/threadline/internal/storage"
	"github.com/threadline-io/threadline/pkg/api"
)

func (c *CLI) newDoctorCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run system diagnostics",
		Long: `Run comprehensive system diagnostics.

Checks:
  - configuration
  - MongoDB connectivity
  - API server health
  - fallback definition`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDoctor(root)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "deploy root holding the fallback definition")

	return cmd
}

func (c *CLI) runDoctor(root string) error {
	c.println("Threadline System Diagnostics")
	c.println("=============================")
	c.println("")

	checks := []DiagnosticCheck{}
	allPassed := true

	for _, check := range []DiagnosticCheck{
		c.checkConfig(),
		c.checkMongo(),
		c.checkAPIHealth(),
		c.checkFallback(root),
	} {
		checks = append(checks, check)
		if !check.Passed {
			allPassed = false
		}
		c.printCheck(check)
	}

	c.println("")

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"checks":     checks,
			"all_passed": allPassed,
		})
	}

	if allPassed {
		c.println("✓ All checks passed")
	} else {
		c.println("✗ Some checks failed - see above for details")
	}

	return nil
}

// DiagnosticCheck represents a single diagnostic check result.
type DiagnosticCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (c *CLI) printCheck(check DiagnosticCheck) {
	status := "✗"
	if check.Passed {
		status = "✓"
	}
	c.printf("%s %s: %s\n", status, check.Name, check.Message)
	if check.Details != "" && !check.Passed {
		c.printf("  → %s\n", check.Details)
	}
}

func (c *CLI) checkConfig() DiagnosticCheck {
	check := DiagnosticCheck{Name: "Configuration"}

	if c.cfg == nil {
		check.Passed = false
		check.Message = "No configuration loaded"
		check.Details = "Create threadline.yaml or use --config flag"
		return check
	}

	if c.cfg.MongoDB.URL == "" || c.cfg.MongoDB.Database == "" {
		check.Passed = false
		check.Message = "MongoDB not configured"
		check.Details = "Set mongodb.url and mongodb.database in config"
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("MongoDB: %s/%s, server: %s", c.cfg.MongoDB.URL, c.cfg.MongoDB.Database, c.cfg.Server.Addr)
	return check
}

func (c *CLI) checkMongo() DiagnosticCheck {
	check := DiagnosticCheck{Name: "MongoDB Connectivity"}

	if c.cfg == nil || c.cfg.MongoDB.URL == "" {
		check.Passed = false
		check.Message = "No MongoDB URL configured"
		return check
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.MongoDB.ConnectTimeout)
	defer cancel()

	client, err := storage.Connect(ctx, c.cfg.MongoDB)
	if err != nil {
		check.Passed = false
		check.Message = "Cannot connect to MongoDB"
		check.Details = fmt.Sprintf("Error: %v", err)
		return check
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	check.Passed = true
	check.Message = fmt.Sprintf("Connected to %s", c.cfg.MongoDB.URL)
	return check
}

func (c *CLI) checkAPIHealth() DiagnosticCheck {
	check := DiagnosticCheck{Name: "API Health"}

	addr := c.cfg.Server.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	url := "http://" + addr + api.EndpointHealth

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		check.Passed = false
		check.Message = "API server not reachable"
		check.Details = fmt.Sprintf("GET %s: %v", url, err)
		return check
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		check.Passed = false
		check.Message = fmt.Sprintf("API health returned %d", resp.StatusCode)
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("Healthy at %s", url)
	return check
}

func (c *CLI) checkFallback(root string) DiagnosticCheck {
	check := DiagnosticCheck{Name: "Fallback Definition"}

	path := filepath.Join(root, fallback.FileName)
	if _, err := os.Stat(path); err != nil {
		check.Passed = false
		check.Message = "No fallback definition"
		check.Details = "Run 'threadline deploy' to synthesize one"
		return check
	}

	if _, err := fallback.Load(path); err != nil {
		check.Passed = false
		check.Message = "Fallback definition unreadable"
		check.Details = fmt.Sprintf("Error: %v", err)
		return check
	}

	check.Passed = true
	check.Message = fmt.Sprintf("Present at %s", path)
	return check
}
