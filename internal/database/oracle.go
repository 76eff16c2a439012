package database

import (
	"context"
	"database/sql"
	"fmt"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// fetchChunkSize is the number of rows per fetch progress increment.
const fetchChunkSize = 5000

// connectOracle opens and pings the source connection. When an SSH key is
// configured the connection is routed through a local tunnel; the returned
// cleanup tears the tunnel down.
func connectOracle(cfg Config, log *runlog.Logger) (*sql.DB, func(), error) {
	host, port := cfg.OracleHost, cfg.OraclePort
	var cleanup func()

	if cfg.SSHKey != "" {
		var err error
		host, port, cleanup, err = setupTunnel(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup SSH tunnel: %w", err)
		}
	}

	url := go_ora.BuildUrl(host, port, cfg.OracleService, cfg.OracleUser, cfg.OraclePassword, nil)

	db, err := sql.Open("oracle", url)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceConnect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceConnect, err)
	}

	log.Infof("Connected to Oracle DB - %s", cfg.OracleUser)
	return db, cleanup, nil
}

// Fetch executes the query once against the source and buffers every row in
// memory. Column metadata is read before any row. A fetch event with the
// cumulative row count fires per chunk.
func (m *Migrator) Fetch(ctx context.Context, query string) (*ResultSet, error) {
	m.log.Infof("Fetching data from Oracle...")
	rs, err := fetchResultSet(ctx, m.source, query, fetchChunkSize, m.events)
	if err != nil {
		return nil, err
	}
	m.log.Successf("Completed fetching %d rows and %d columns.", len(rs.Rows), len(rs.Columns))
	return rs, nil
}

func fetchResultSet(ctx context.Context, db *sql.DB, query string, chunkSize int, events progress.Sink) (*ResultSet, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}

	columns := make([]ColumnDescriptor, len(colTypes))
	for i, ct := range colTypes {
		col := ColumnDescriptor{
			Name:       ct.Name(),
			NativeType: ct.DatabaseTypeName(),
		}
		if precision, scale, ok := ct.DecimalSize(); ok {
			col.Precision, col.HasPrecision = precision, true
			col.Scale, col.HasScale = scale, true
		}
		if length, ok := ct.Length(); ok {
			col.Length, col.HasLength = length, true
		}
		columns[i] = col
	}

	rs := &ResultSet{Columns: columns}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}

		row := make([]interface{}, len(values))
		copy(row, values)
		rs.Rows = append(rs.Rows, row)

		if len(rs.Rows)%chunkSize == 0 {
			events.Emit(progress.Event{Type: progress.EventFetch, Rows: int64(len(rs.Rows))})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row fetch failed: %w", err)
	}

	if len(rs.Rows)%chunkSize != 0 {
		events.Emit(progress.Event{Type: progress.EventFetch, Rows: int64(len(rs.Rows))})
	}

	return rs, nil
}
