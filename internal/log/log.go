// Package log configures the process-wide apex/log logger.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Init installs the CLI handler and picks the level from the LMACFY_LOG
// environment variable. Unset means warnings and errors only, which keeps
// command output clean unless the user asks for more.
func Init() {
	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(levelFromEnv(log.WarnLevel))
}

// SetVerbose lowers the level to debug. Wired to the --verbose flags.
func SetVerbose() {
	log.SetLevel(log.DebugLevel)
}

// UseServerHandler switches to the long-running service format: JSON by
// default, human-readable text when LOG_FORMAT=text is set. The default
// level for the server is info rather than warn so request logs show up.
func UseServerHandler(w io.Writer) {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		log.SetHandler(text.New(w))
	} else {
		log.SetHandler(json.New(w))
	}
	log.SetLevel(levelFromEnv(log.InfoLevel))
}

func levelFromEnv(fallback log.Level) log.Level {
	s := strings.ToLower(os.Getenv("LMACFY_LOG"))
	if s == "" {
		return fallback
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return fallback
	}
	return lvl
}
