// Package common provides shared interfaces used throughout the gitsave application.
//
// # Logger Interface
//
// The Logger interface separates internal diagnostics (Info, Warning, Error)
// from operator-facing console output (InfoToUser, WarningToUser, Success,
// StatusMessage). The pipeline in internal/backup and the git adapters only
// depend on this interface, which keeps them testable with a recording fake:
//
//	type Runner struct {
//	    logger common.Logger
//	}
//
//	func (r *Runner) push() {
//	    r.logger.Info("pushing %s", r.branch)
//	    r.logger.Success("Backup completed")
//	}
//
// This package must not import any other internal package.
package common
