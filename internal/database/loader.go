package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// DefaultBatchSize is the number of rows committed per destination
// transaction.
const DefaultBatchSize = 1000

// buildInsertSQL builds the parameterized insert statement once; it is reused
// for every batch.
func buildInsertSQL(target TargetIdentifier, columns []ColumnDescriptor) string {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quoteIdent(col.Name)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// normalizeValue converts null-like values to an explicit SQL NULL.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(val)) {
			return nil
		}
	}
	return v
}

// Load inserts every row of rs into the target table in batches, committing
// after each batch. On a batch failure the in-flight transaction is rolled
// back and the load stops; prior batches stay committed. The returned count
// is the number of committed rows; the error is the recorded load failure.
func (m *Migrator) Load(ctx context.Context, rs *ResultSet, target TargetIdentifier) (int64, error) {
	return loadBatches(ctx, m.dest, rs, target, DefaultBatchSize, m.log, m.events)
}

func loadBatches(ctx context.Context, db *sql.DB, rs *ResultSet, target TargetIdentifier, batchSize int, log *runlog.Logger, events progress.Sink) (int64, error) {
	stmt, err := db.PrepareContext(ctx, buildInsertSQL(target, rs.Columns))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	log.Infof("Inserting %d rows into %s...", len(rs.Rows), target)

	var inserted int64
	for start := 0; start < len(rs.Rows); start += batchSize {
		end := start + batchSize
		if end > len(rs.Rows) {
			end = len(rs.Rows)
		}

		if err := insertBatch(ctx, db, stmt, rs.Rows[start:end]); err != nil {
			log.Errorf("Insert failed for %s: %v", target, err)
			return inserted, fmt.Errorf("insert batch starting at row %d: %w", start, err)
		}

		inserted += int64(end - start)
		events.Emit(progress.Event{Type: progress.EventInsert, Rows: inserted})
	}

	log.Successf("Inserted %d rows into %s.", inserted, target)
	return inserted, nil
}

// insertBatch runs one batch in its own transaction. The prepared statement
// is bound to the transaction rather than re-prepared.
func insertBatch(ctx context.Context, db *sql.DB, stmt *sql.Stmt, batch [][]interface{}) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txStmt := tx.StmtContext(ctx, stmt)
	values := make([]interface{}, 0, 16)

	for _, row := range batch {
		values = values[:0]
		for _, v := range row {
			values = append(values, normalizeValue(v))
		}
		if _, err := txStmt.ExecContext(ctx, values...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
