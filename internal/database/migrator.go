package database

import (
	"context"
	"fmt"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// NewMigrator opens both connections for one migration run. Either connection
// failure returns a typed error (ErrSourceConnect / ErrDestConnect) without
// touching the other endpoint's state.
func NewMigrator(cfg Config, log *runlog.Logger, events progress.Sink) (*Migrator, error) {
	source, cleanup, err := connectOracle(cfg, log)
	if err != nil {
		log.Errorf("Oracle connection failed: %v", err)
		return nil, err
	}

	dest, err := connectMSSQL(cfg, log)
	if err != nil {
		source.Close()
		if cleanup != nil {
			cleanup()
		}
		log.Errorf("SQL Server connection failed: %v", err)
		return nil, err
	}

	return &Migrator{
		source:  source,
		dest:    dest,
		cleanup: cleanup,
		log:     log,
		events:  events,
	}, nil
}

// Close tears down both connections and the SSH tunnel if one was opened.
// Safe to call on every exit path.
func (m *Migrator) Close() {
	if m.source != nil {
		m.source.Close()
		m.source = nil
	}
	if m.dest != nil {
		m.dest.Close()
		m.dest = nil
	}
	if m.cleanup != nil {
		m.cleanup()
		m.cleanup = nil
	}
	m.log.Infof("Connections closed.")
}

// Validate opens and pings both endpoints, then releases them. Used by the
// validate command to test configuration without moving data.
func Validate(cfg Config, log *runlog.Logger) error {
	m, err := NewMigrator(cfg, log, nil)
	if err != nil {
		return err
	}
	m.Close()
	return nil
}

// Run executes one migration: fetch, optional CSV snapshot, table
// provisioning, batch load. Fatal errors are logged in full and surface as
// ErrRunFailed; a load failure is recorded in the report as a partial
// outcome instead. The caller owns Close.
func (m *Migrator) Run(ctx context.Context, target TargetIdentifier, query string, saveCSV bool) (*ResultSet, *RunReport, error) {
	rs, err := m.Fetch(ctx, query)
	if err != nil {
		return nil, nil, m.fatal(err)
	}

	if saveCSV && !rs.Empty() {
		path := SnapshotPath(target.Table)
		if err := WriteSnapshot(path, rs); err != nil {
			m.log.Warnf("Failed to export CSV automatically: %v", err)
		} else {
			m.log.Infof("Auto-exported fetched data to %s", path)
		}
	}

	if err := m.EnsureTable(ctx, target, rs.Columns); err != nil {
		return nil, nil, m.fatal(err)
	}

	inserted, loadErr := m.Load(ctx, rs, target)

	report := &RunReport{
		Status:       StatusCompleted,
		FetchedRows:  int64(len(rs.Rows)),
		InsertedRows: inserted,
	}
	if loadErr != nil {
		report.Status = StatusPartialLoad
		report.LoadErr = loadErr
		m.events.Emit(progress.Event{
			Type:    progress.EventFailed,
			Rows:    inserted,
			Message: fmt.Sprintf("load stopped after %d of %d rows; see the log", inserted, len(rs.Rows)),
		})
		return rs, report, nil
	}

	m.log.Infof("Data transfer complete.")
	m.events.Emit(progress.Event{
		Type:    progress.EventDone,
		Rows:    inserted,
		Message: fmt.Sprintf("transferred %d rows into %s", inserted, target),
	})
	return rs, report, nil
}

// fatal logs the full diagnostic and returns the single user-facing error.
func (m *Migrator) fatal(err error) error {
	m.log.Errorf("Fatal error during transfer: %v", err)
	m.events.Emit(progress.Event{Type: progress.EventFailed, Message: ErrRunFailed.Error()})
	return ErrRunFailed
}
