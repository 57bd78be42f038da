package observability

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/slatelisp/nrepld/internal/logging"
)

// InitLogger builds the process logger and installs it as the global.
// Console output is the default; NREPLD_LOG_FORMAT=json selects raw
// JSON lines for collection.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	var logger zerolog.Logger
	if strings.EqualFold(strings.TrimSpace(os.Getenv(logging.EnvLogFormat)), "json") {
		logger = zerolog.New(os.Stdout)
	} else {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output)
	}
	logger = logger.With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
