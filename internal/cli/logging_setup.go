package cli

import (
	"github.com/spf13/cobra"

	"github.com/emfactor/emfactor/internal/logging"
)

// setupLogging configures logging from the config file, environment, and CLI
// flags, and attaches the logger plus a trace id to the command context.
func setupLogging(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	loggingCfg := cfg.Logging
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	base := logging.New(logging.Config{
		Level:  loggingCfg.Level,
		Format: loggingCfg.Format,
		Output: cmd.ErrOrStderr(),
	})
	logger = logging.ComponentLogger(base, "cli")

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")
	return nil
}
