package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// connectMSSQL opens and pings the destination connection. The legacy "mssql"
// driver name is used so insert statements can carry ? ordinal placeholders.
func connectMSSQL(cfg Config, log *runlog.Logger) (*sql.DB, error) {
	parts := []string{
		fmt.Sprintf("server=%s", cfg.SQLServer),
		fmt.Sprintf("database=%s", cfg.SQLDatabase),
		fmt.Sprintf("user id=%s", cfg.SQLUser),
		fmt.Sprintf("password=%s", cfg.SQLPassword),
		fmt.Sprintf("encrypt=%s", cfg.SQLEncrypt),
		fmt.Sprintf("TrustServerCertificate=%s", cfg.SQLTrustCert),
	}
	if cfg.SQLDriver != "" {
		parts = append(parts, fmt.Sprintf("app name=%s", cfg.SQLDriver))
	}

	db, err := sql.Open("mssql", strings.Join(parts, ";"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestConnect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDestConnect, err)
	}

	log.Infof("Connected to MS SQL Server - %s", cfg.SQLServer)
	return db, nil
}

// quoteIdent bracket-quotes a SQL Server identifier, doubling any closing
// bracket so embedded quote characters cannot break out of the name.
func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// quoteLiteral renders s as an N'...' string literal with quotes doubled.
func quoteLiteral(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// buildEnsureTableSQL assembles the single T-SQL batch that creates the
// schema and the table when either is missing. Idempotent: both statements
// are guarded by catalog probes.
func buildEnsureTableSQL(target TargetIdentifier, columns []ColumnDescriptor) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col.Name), MapType(col))
	}

	createSchema := fmt.Sprintf("CREATE SCHEMA %s", quoteIdent(target.Schema))
	createTable := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", target, strings.Join(defs, ",\n\t"))

	var b strings.Builder
	fmt.Fprintf(&b, "IF NOT EXISTS (SELECT * FROM sys.schemas WHERE name = %s)\n", quoteLiteral(target.Schema))
	fmt.Fprintf(&b, "\tEXEC(%s);\n", quoteLiteral(createSchema))
	fmt.Fprintf(&b, "IF NOT EXISTS (\n")
	fmt.Fprintf(&b, "\tSELECT * FROM INFORMATION_SCHEMA.TABLES\n")
	fmt.Fprintf(&b, "\tWHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s\n)\n", quoteLiteral(target.Schema), quoteLiteral(target.Table))
	fmt.Fprintf(&b, "BEGIN\n\t%s\nEND", strings.ReplaceAll(createTable, "\n", "\n\t"))
	return b.String()
}

// EnsureTable makes sure the destination schema and table exist, creating
// them with mapped column types when missing. The whole batch runs in one
// destination transaction; any failure rolls back and is fatal to the run.
func (m *Migrator) EnsureTable(ctx context.Context, target TargetIdentifier, columns []ColumnDescriptor) error {
	tx, err := m.dest.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, buildEnsureTableSQL(target, columns)); err != nil {
		tx.Rollback()
		m.log.Errorf("Failed to create table %s: %v", target, err)
		return fmt.Errorf("failed to create table %s: %w", target, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table creation: %w", err)
	}

	m.log.Successf("Table %s verified or created.", target)
	return nil
}
