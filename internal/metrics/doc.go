// Package metrics exports the result of a gitsave run as a Prometheus
// textfile, for the node exporter's textfile collector.
//
// Series written, all labeled with repo:
//
//	gitsave_last_run_timestamp_seconds
//	gitsave_last_success_timestamp_seconds   this run if it pushed, else carried over from the file
//	gitsave_run_outcome{outcome="..."}        1 for this run's outcome, 0 otherwise
//	gitsave_step_duration_seconds{step="..."}
package metrics
