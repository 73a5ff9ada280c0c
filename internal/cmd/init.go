package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Stumpwiz/lmacfy/internal/config"
	"github.com/Stumpwiz/lmacfy/internal/ui"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .lmacfy.yaml in the current directory",
	Long: `Interactively create the project configuration file. Every value can
still be overridden per run with flags or environment variables.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	path := filepath.Join(cwd, config.FileName)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists, pass --force to overwrite", config.FileName)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("init is interactive and needs a terminal; write %s by hand instead", config.FileName)
	}

	defaults := config.Default()

	region, err := (&promptui.Prompt{
		Label:   "AWS region",
		Default: defaults.Region,
	}).Run()
	if err != nil {
		return err
	}

	repository, err := (&promptui.Prompt{
		Label:   "ECR repository",
		Default: defaults.Repository,
		Validate: func(s string) error {
			return (&config.Config{Repository: s}).Validate()
		},
	}).Run()
	if err != nil {
		return err
	}

	_, platform, err := (&promptui.Select{
		Label: "Image platform",
		Items: []string{"linux/amd64", "linux/arm64"},
	}).Run()
	if err != nil {
		return err
	}

	serviceARN, err := (&promptui.Prompt{
		Label: "App Runner service ARN (empty to skip)",
		Validate: func(s string) error {
			return (&config.Config{ServiceARN: s}).Validate()
		},
	}).Run()
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Region:     region,
		Repository: repository,
		Platform:   platform,
		ServiceARN: serviceARN,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	out := os.Stdout
	ui.Successf(out, "Wrote %s", path)
	ui.Detailf(out, "run lmacfy doctor to verify your setup")
	return nil
}
