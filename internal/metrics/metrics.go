package metrics

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bashhack/gitsave/internal/backup"
	"github.com/bashhack/gitsave/internal/errors"
)

// Metric names written to the textfile.
const (
	LastRunName      = "gitsave_last_run_timestamp_seconds"
	LastSuccessName  = "gitsave_last_success_timestamp_seconds"
	RunOutcomeName   = "gitsave_run_outcome"
	StepDurationName = "gitsave_step_duration_seconds"
)

// Registry builds a registry describing report. repo is attached to every
// series as a constant label so several repositories can share a
// textfile-collector directory. lastSuccess is the previous successful run,
// zero if unknown; a pushed report replaces it with its own finish time.
func Registry(report *backup.Report, repo string, lastSuccess time.Time) *prometheus.Registry {
	labels := prometheus.Labels{"repo": repo}

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        LastRunName,
		Help:        "Unix time at which the last gitsave run finished.",
		ConstLabels: labels,
	})
	outcome := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        RunOutcomeName,
		Help:        "Outcome of the last gitsave run (1 for the outcome that occurred).",
		ConstLabels: labels,
	}, []string{"outcome"})
	stepDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        StepDurationName,
		Help:        "Duration of each pipeline step in the last gitsave run.",
		ConstLabels: labels,
	}, []string{"step"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(lastRun, outcome, stepDuration)

	lastRun.Set(float64(report.FinishedAt.Unix()))

	for _, o := range backup.Outcomes {
		v := 0.0
		if o == report.Outcome {
			v = 1
		}
		outcome.WithLabelValues(o.String()).Set(v)
	}

	for _, s := range report.Steps {
		stepDuration.WithLabelValues(string(s.Step)).Set(s.Duration.Seconds())
	}

	if report.Outcome == backup.Pushed {
		lastSuccess = report.FinishedAt
	}
	if !lastSuccess.IsZero() {
		success := prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        LastSuccessName,
			Help:        "Unix time of the last gitsave run that pushed a commit.",
			ConstLabels: labels,
		})
		reg.MustRegister(success)
		success.Set(float64(lastSuccess.Unix()))
	}

	return reg
}

// WriteTextfile writes the report to path in the node exporter textfile
// format. The file is replaced atomically. The last success timestamp
// already in the file is kept when this run did not push.
func WriteTextfile(path string, report *backup.Report, repo string) error {
	var lastSuccess time.Time
	if report.Outcome != backup.Pushed {
		lastSuccess = previousSuccess(path, repo)
	}

	if err := prometheus.WriteToTextfile(path, Registry(report, repo, lastSuccess)); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}

// previousSuccess reads the last success timestamp for repo from an
// existing textfile. It returns the zero time when there is none.
func previousSuccess(path, repo string) time.Time {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}
	}
	defer func() { _ = f.Close() }()

	prefix := LastSuccessName + "{"
	label := `repo="` + repo + `"`

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) || !strings.Contains(line, label) {
			continue
		}
		fields := strings.Fields(line)
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil || v <= 0 {
			return time.Time{}
		}
		return time.Unix(int64(v), 0)
	}
	return time.Time{}
}
