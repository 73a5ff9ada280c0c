package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Stumpwiz/lmacfy/internal/awsx"
	"github.com/Stumpwiz/lmacfy/internal/config"
	"github.com/Stumpwiz/lmacfy/internal/docker"
	"github.com/Stumpwiz/lmacfy/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check every deployment prerequisite",
	Long: `Run the same checks the deploy command runs before touching anything,
plus a few informational ones, and report each result. Exits non-zero when
a required prerequisite is missing.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := os.Stdout
	failed := 0

	ui.Stepf(out, "Checking container tooling")
	engine, err := docker.Resolve()
	if err != nil {
		ui.Failf(out, "docker CLI: %v", err)
		failed++
	} else {
		ui.Successf(out, "docker CLI found")

		if err := engine.CheckDaemon(ctx); err != nil {
			ui.Failf(out, "docker daemon: %v", err)
			failed++
		} else {
			ui.Successf(out, "docker daemon reachable")
		}

		if err := engine.CheckBuildx(ctx); err != nil {
			ui.Failf(out, "docker buildx: %v", err)
			failed++
		} else {
			ui.Successf(out, "docker buildx available")
		}
	}

	ui.Stepf(out, "Checking AWS access")
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, path, err := config.Resolve(cwd)
	if err != nil {
		ui.Failf(out, "config: %v", err)
		failed++
		cfg = config.Default()
	} else if path != "" {
		ui.Detailf(out, "config %s", path)
	} else {
		ui.Detailf(out, "no %s found, using defaults", config.FileName)
	}

	cloud, err := awsx.New(ctx, cfg.Region)
	if err != nil {
		ui.Failf(out, "AWS configuration: %v", err)
		failed++
	} else {
		id, err := cloud.Identity(ctx)
		if err != nil {
			ui.Failf(out, "AWS credentials: %v", err)
			failed++
		} else {
			ui.Successf(out, "AWS credentials resolve to account %s", id.Account)
			ui.Detailf(out, "%s", id.ARN)
		}
	}

	ui.Stepf(out, "Checking optional pieces")
	if _, err := exec.LookPath("git"); err != nil {
		ui.Hintf(out, "git not found, images will be tagged latest")
	} else {
		ui.Successf(out, "git found")
	}
	if cfg.ServiceARN == "" {
		ui.Hintf(out, "no App Runner service ARN configured, deploy --deploy will refuse to run")
	} else {
		ui.Successf(out, "App Runner service ARN configured")
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		ui.Hintf(out, "OPENAI_API_KEY not set, lmacfy serve will refuse to start")
	} else {
		ui.Successf(out, "OPENAI_API_KEY set")
	}

	if failed > 0 {
		return fmt.Errorf("%d required check(s) failed", failed)
	}
	ui.Successf(out, "All required checks passed")
	return nil
}
