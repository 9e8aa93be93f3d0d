// Package constants provides application-wide constant values for gitsave.
//
// It centralizes the defaults that the original backup script hard-coded
// (remote name, branch, commit message prefix, timestamp layout) so that
// config, the git adapters and the pipeline agree on a single value, plus
// the banner shown by the version command.
//
//	import "github.com/bashhack/gitsave/internal/constants"
//
//	msg := constants.DefaultMessagePrefix + constants.MessageSeparator + now.Format(constants.TimestampLayout)
package constants
