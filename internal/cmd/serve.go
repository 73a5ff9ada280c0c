package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Stumpwiz/lmacfy/internal/assistant"
	"github.com/Stumpwiz/lmacfy/internal/log"
	"github.com/Stumpwiz/lmacfy/internal/server"
)

var (
	servePort      int
	serveDev       bool
	serveTemplates string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Let Me Ask ChatGPT For You web app",
	Long: `Serve the web UI that answers questions through the OpenAI API.

Configuration comes from the environment; a .env file in the working
directory is honored:
  OPENAI_API_KEY   required
  OPENAI_MODEL     model to query (default gpt-4o-mini)
  OPENAI_BASE_URL  alternate API endpoint, e.g. a proxy
  PORT             listen port (default 5000)
  LOG_FORMAT       "text" for human-readable logs (default json)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Serve templates from disk with hot reload")
	serveCmd.Flags().StringVar(&serveTemplates, "templates", "internal/server/templates", "Template directory for --dev")
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env keeps local development parity with the deployed environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	log.UseServerHandler(os.Stderr)

	client, err := assistant.New(
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("OPENAI_MODEL"),
		os.Getenv("OPENAI_BASE_URL"),
	)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = 5000
		if v := os.Getenv("PORT"); v != "" {
			port, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid PORT %q: %w", v, err)
			}
		}
	}

	templateDir := ""
	if serveDev {
		templateDir = serveTemplates
	}

	srv, err := server.New(server.Options{
		Addr:        fmt.Sprintf(":%d", port),
		Assistant:   client,
		TemplateDir: templateDir,
	})
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
