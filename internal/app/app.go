// Package app implements the application layer for zinc.
package app

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/zerr"
	"go.trai.ch/zinc/internal/core/domain"
	"go.trai.ch/zinc/internal/core/ports"
)

// App resolves incremental options and tracks them against recorded analyses.
type App struct {
	loader ports.OptionsLoader
	store  ports.AnalysisStore
	logger ports.Logger
	cwd    string
	now    func() time.Time
}

// New creates a new App instance working in the current directory.
func New(loader ports.OptionsLoader, store ports.AnalysisStore, logger ports.Logger) *App {
	return &App{
		loader: loader,
		store:  store,
		logger: logger,
		cwd:    ".",
		now:    time.Now,
	}
}

// WithWorkingDir sets the directory the configuration is loaded from.
func (a *App) WithWorkingDir(dir string) *App {
	a.cwd = dir
	return a
}

// WithClock sets the clock used to timestamp records.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Options loads the incremental options for the working directory.
func (a *App) Options(ctx context.Context) (domain.IncOptions, error) {
	if err := ctx.Err(); err != nil {
		return domain.IncOptions{}, err
	}

	opts, err := a.loader.Load(a.cwd)
	if err != nil {
		return domain.IncOptions{}, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.RelationsDebug() {
		a.logger.Info("resolved " + opts.String())
	}
	return opts, nil
}

// Status compares the current options with those recorded for project.
func (a *App) Status(ctx context.Context, project string) (domain.OptionsStatus, error) {
	if project == "" {
		return domain.OptionsStatus{}, domain.ErrNoProject
	}

	current, err := a.Options(ctx)
	if err != nil {
		return domain.OptionsStatus{}, err
	}

	status := domain.OptionsStatus{
		Project:  project,
		Current:  current,
		Previous: domain.None[domain.IncOptions](),
	}

	record, err := a.store.Get(project)
	if err != nil {
		return domain.OptionsStatus{}, zerr.With(zerr.Wrap(err, "failed to read analysis record"), "project", project)
	}
	if record == nil {
		a.logger.Info("no recorded analysis for project " + project)
		return status, nil
	}

	// Hooks and the setup equivalence are never persisted, so the previous
	// options inherit the current runtime values.
	base := domain.NewIncOptions().
		WithExternalHooks(current.ExternalHooks()).
		WithExternalCompileSetupEquiv(current.ExternalCompileSetupEquiv())
	previous, err := record.Options.Apply(base)
	if err != nil {
		return domain.OptionsStatus{}, zerr.With(zerr.Wrap(err, "failed to decode analysis record"), "project", project)
	}

	status.Previous = domain.Some(previous)
	status.Changed = previous.Diff(current)
	if len(status.Changed) > 0 {
		a.logger.Warn("incremental options changed for project " + project + ": " + strings.Join(status.Changed, ", "))
	}
	return status, nil
}

// Record stores the current options as the analysis record of project.
func (a *App) Record(ctx context.Context, project string) (domain.AnalysisRecord, error) {
	if project == "" {
		return domain.AnalysisRecord{}, domain.ErrNoProject
	}

	current, err := a.Options(ctx)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	record := domain.AnalysisRecord{
		Project:     project,
		Options:     current.Record(),
		Fingerprint: current.Fingerprint(),
		Timestamp:   a.now().UTC(),
	}
	if err := a.store.Put(record); err != nil {
		return domain.AnalysisRecord{}, zerr.With(zerr.Wrap(err, "failed to write analysis record"), "project", project)
	}

	a.logger.Info("recorded options for project " + project + " (" + record.Fingerprint + ")")
	return record, nil
}
