package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Stumpwiz/lmacfy/internal/awsx"
	"github.com/Stumpwiz/lmacfy/internal/config"
	"github.com/Stumpwiz/lmacfy/internal/log"
	"github.com/Stumpwiz/lmacfy/internal/ui"
)

var (
	statusRegion     string
	statusServiceARN string
	statusVerbose    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the App Runner service status",
	Long: `Describe the configured App Runner service: its status, URL, and when
it last changed. Useful to follow a rollout triggered without --wait.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusRegion, "region", "r", "", "AWS region (default from config, then us-east-1)")
	statusCmd.Flags().StringVar(&statusServiceARN, "service-arn", "", "App Runner service ARN (default from config)")
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "Show debug output")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusVerbose {
		log.SetVerbose()
	}
	ctx := cmd.Context()
	out := os.Stdout

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, _, err := config.Resolve(cwd)
	if err != nil {
		return err
	}
	if statusRegion != "" {
		cfg.Region = statusRegion
	}
	if statusServiceARN != "" {
		cfg.ServiceARN = statusServiceARN
	}
	if cfg.ServiceARN == "" {
		return fmt.Errorf("no App Runner service ARN is configured\n\n" +
			"Set service_arn in .lmacfy.yaml, pass --service-arn, or export LMACFY_SERVICE_ARN.\n" +
			"List your services with: aws apprunner list-services")
	}

	cloud, err := awsx.New(ctx, cfg.Region)
	if err != nil {
		return err
	}
	snap, err := cloud.DescribeService(ctx, cfg.ServiceARN)
	if err != nil {
		return err
	}

	ui.Stepf(out, "Service %s", snap.Name)
	switch {
	case snap.Running():
		ui.Successf(out, "status %s", snap.Status)
	case snap.Settled():
		ui.Failf(out, "status %s", snap.Status)
	default:
		ui.Hintf(out, "status %s", snap.Status)
	}
	if snap.URL != "" {
		ui.Reff(out, "https://"+snap.URL)
		ui.Detailf(out, "probe it with: curl https://%s/healthz", snap.URL)
	}
	if !snap.Updated.IsZero() {
		ui.Detailf(out, "last change %s", humanize.Time(snap.Updated))
	}
	return nil
}
