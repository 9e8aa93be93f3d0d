// Package logger provides logging facilities for the gitsave application.
//
// DefaultLogger writes two kinds of output:
//
//   - Diagnostics (Info, Warning, Error) go to a slog text log file when debug
//     logging is enabled. Warning is echoed to stdout in verbose mode and Error
//     is always echoed to stderr.
//   - Operator messages (InfoToUser, WarningToUser, Success, StatusMessage) are
//     always printed to stdout with an emoji prefix. Success, warnings and
//     errors are colored with termenv when the output is a terminal.
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose)
//	defer log.Close()
//
//	runLog := log.With("run_id", runID)
//	runLog.Info("staging changes")
//	runLog.Success("Sauvegarde terminée avec succès !")
//
// Loggers returned by With share the parent's file and lock; only the parent
// closes the file.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package logger
