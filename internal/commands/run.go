package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/config"
	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/runlog"
)

func newRunCommand(a *app) *cobra.Command {
	var person, job string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the extraction jobs listed in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJobs(cmd.Context(), cmd.OutOrStdout(), a, person, job)
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "only run jobs for this person id")
	cmd.Flags().StringVar(&job, "job", "", "only run the named job")

	return cmd
}

func runJobs(ctx context.Context, w io.Writer, a *app, person, job string) error {
	if !a.cfgLoaded {
		return fmt.Errorf("config %s not found (create one with statex init)", a.configPath)
	}
	cfg := a.cfg
	if err := cfg.Validate(a.registry.Formats()); err != nil {
		return fmt.Errorf("invalid config %s:\n%w", a.configPath, err)
	}

	jobs, err := selectJobs(cfg, person, job)
	if err != nil {
		return err
	}

	runID := runlog.NewRunID()
	a.log.WithFields(logrus.Fields{"run_id": runID, "jobs": len(jobs)}).Info("starting run")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTATUS\tFILES\tFAILED\tROWS")
	entries := make([]runlog.Entry, 0, len(jobs))
	failed := 0
	for _, j := range jobs {
		e := runJob(ctx, a, j)
		e.RunID = runID
		if e.Status == runlog.StatusFailed {
			failed++
		}
		entries = append(entries, e)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", e.Job, e.Status, e.Files, e.Failed, e.Rows)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if cfg.RunLog != "" {
		if err := runlog.Append(cfg.RunLog, entries); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

func selectJobs(cfg *config.Config, person, job string) ([]config.Job, error) {
	if job != "" {
		j, ok := cfg.Job(job)
		if !ok {
			return nil, fmt.Errorf("unknown job %q", job)
		}
		if person != "" && j.Person != person {
			return nil, fmt.Errorf("job %q belongs to %q, not %q", job, j.Person, person)
		}
		return []config.Job{j}, nil
	}

	var out []config.Job
	for _, j := range cfg.Jobs {
		if person == "" || j.Person == person {
			out = append(out, j)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no jobs to run")
	}
	return out, nil
}

// runJob executes one job and reports it as a run log entry. A job that
// extracts nothing from a provider that requires rows is recorded as empty.
func runJob(ctx context.Context, a *app, j config.Job) runlog.Entry {
	e := runlog.Entry{
		Timestamp: time.Now().UTC(),
		Job:       j.Name,
		Person:    j.Person,
		Format:    j.Format,
		Input:     j.Input,
		Output:    j.Output,
	}
	log := a.log.WithFields(logrus.Fields{"job": j.Name, "person": j.Person})

	conv := a.registry.Get(j.Format)
	opts := importer.Options{
		OutputCSV:   j.Output,
		OutputJSON:  j.OutputJSON,
		OutputExcel: j.OutputExcel,
		Recursive:   conv.DefaultRecursive(),
		Password:    a.cfg.PDFPassword,
		Strict:      j.Strict,
		Logger:      log,
	}
	if j.Recursive != nil {
		opts.Recursive = *j.Recursive
	}
	if info, err := os.Stat(j.Input); err == nil && !info.IsDir() {
		opts.InputFile = j.Input
	} else {
		opts.InputFolder = j.Input
	}

	res, err := conv.Convert(ctx, opts)
	e.Files, e.Failed, e.Rows = res.Files, res.Failed, res.Rows
	switch {
	case errors.Is(err, importer.ErrNoRows):
		e.Status, e.Error = runlog.StatusEmpty, err.Error()
		log.WithError(err).Warn("job produced no rows")
	case err != nil:
		e.Status, e.Error = runlog.StatusFailed, err.Error()
		log.WithError(err).Error("job failed")
	default:
		e.Status = runlog.StatusOK
		log.WithField("rows", res.Rows).Info("job finished")
	}
	return e
}
