package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Stumpwiz/lmacfy/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "lmacfy",
	Short: "lmacfy - ship the Let Me Ask ChatGPT For You app",
	Long: `lmacfy wraps the container and AWS plumbing behind the "Let Me Ask
ChatGPT For You" web app: it builds the image with docker buildx, pushes
it to Amazon ECR, and rolls it out to AWS App Runner. It can also run the
app itself.

Run it from the repository you want to ship; the image tag defaults to
the current git revision.`,
	Version:       "0.4.0",
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// flag mistakes still print usage; once a command runs its
		// errors stand on their own
		cmd.SilenceUsage = true
		log.Init()
	},
}

// Execute runs the root command with ctx wired through to every RunE.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
