package common

// Logger is what the backup pipeline and the command need from a logger.
// The first group never reaches the console on its own; the second group is
// what the operator reads.
type Logger interface {
	// Info records a diagnostic in the debug log.
	Info(format string, args ...interface{})

	// Warning records a diagnostic in the debug log and echoes it in verbose mode.
	Warning(format string, args ...interface{})

	// Error records a failure and always prints it to stderr.
	Error(format string, args ...interface{})

	// InfoToUser prints an informational line for the operator.
	InfoToUser(format string, args ...interface{})

	// WarningToUser prints a warning line for the operator.
	WarningToUser(format string, args ...interface{})

	// Success prints the final success line of a run.
	Success(format string, args ...interface{})

	// StatusMessage prints a plain progress line; it is never logged to file.
	StatusMessage(format string, args ...interface{})
}
