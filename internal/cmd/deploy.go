package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stumpwiz/lmacfy/internal/awsx"
	"github.com/Stumpwiz/lmacfy/internal/config"
	"github.com/Stumpwiz/lmacfy/internal/deploy"
	"github.com/Stumpwiz/lmacfy/internal/docker"
	"github.com/Stumpwiz/lmacfy/internal/log"
)

var (
	deployRegion     string
	deployRepository string
	deployTag        string
	deployLatest     bool
	deployTrigger    bool
	deployServiceARN string
	deployWait       bool
	deployPlatform   string
	deployContext    string
	deployVerbose    bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build, push, and optionally roll out the image",
	Long: `Build the container image with docker buildx, push it to ECR, and
optionally trigger an App Runner deployment.

The image tag defaults to the short git revision of the build context, or
"latest" outside a repository. The ECR repository is created when missing.

Examples:
  lmacfy deploy                          # build and push :<git-rev>
  lmacfy deploy --latest                 # also push :latest
  lmacfy deploy --deploy --wait          # push, roll out, wait for settle
  lmacfy deploy -r eu-west-1 -t v1.2.3   # explicit region and tag`,
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().StringVarP(&deployRegion, "region", "r", "", "AWS region (default from config, then us-east-1)")
	deployCmd.Flags().StringVar(&deployRepository, "repository", "", "ECR repository name (default from config, then lmacfy)")
	deployCmd.Flags().StringVarP(&deployTag, "tag", "t", "", "Image tag (default: short git revision)")
	deployCmd.Flags().BoolVar(&deployLatest, "latest", false, "Also push the :latest tag")
	deployCmd.Flags().BoolVar(&deployTrigger, "deploy", false, "Trigger an App Runner deployment after the push")
	deployCmd.Flags().StringVar(&deployServiceARN, "service-arn", "", "App Runner service ARN (required with --deploy)")
	deployCmd.Flags().BoolVar(&deployWait, "wait", false, "Wait for the deployment to settle (with --deploy)")
	deployCmd.Flags().StringVar(&deployPlatform, "platform", "", "Target platform for the build (default linux/amd64)")
	deployCmd.Flags().StringVarP(&deployContext, "context", "C", ".", "Build context directory")
	deployCmd.Flags().BoolVarP(&deployVerbose, "verbose", "v", false, "Show debug output")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	if deployVerbose {
		log.SetVerbose()
	}
	ctx := cmd.Context()

	cfg, err := resolveDeployConfig()
	if err != nil {
		return err
	}

	engine, err := docker.Resolve()
	if err != nil {
		return err
	}
	cloud, err := awsx.New(ctx, cfg.Region)
	if err != nil {
		return err
	}

	_, err = deploy.New(engine, cloud).Run(ctx, cfg)
	return err
}

// resolveDeployConfig merges CLI flags over environment variables, the
// nearest .lmacfy.yaml, and built-in defaults.
func resolveDeployConfig() (deploy.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return deploy.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	base, _, err := config.Resolve(cwd)
	if err != nil {
		return deploy.Config{}, err
	}

	cfg := deploy.Config{
		Region:     base.Region,
		Repository: base.Repository,
		Platform:   base.Platform,
		ServiceARN: base.ServiceARN,
		Tag:        deployTag,
		ContextDir: deployContext,
		AlsoLatest: deployLatest,
		Deploy:     deployTrigger,
		Wait:       deployWait,
	}
	if deployRegion != "" {
		cfg.Region = deployRegion
	}
	if deployRepository != "" {
		cfg.Repository = deployRepository
	}
	if deployPlatform != "" {
		cfg.Platform = deployPlatform
	}
	if deployServiceARN != "" {
		cfg.ServiceARN = deployServiceARN
	}
	return cfg, nil
}
