package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// Config holds all configuration for the source and destination connections.
type Config struct {
	// Oracle source
	OracleUser     string
	OraclePassword string
	OracleHost     string
	OraclePort     int
	OracleService  string

	// SQL Server destination
	SQLServer    string
	SQLDatabase  string
	SQLUser      string
	SQLPassword  string
	SQLDriver    string
	SQLEncrypt   string
	SQLTrustCert string

	// Optional SSH tunnel to the Oracle host
	SSHKey  string
	SSHUser string
	SSHHost string
	SSHPort int
}

// ColumnDescriptor records one result-set column's name and native Oracle
// type as reported by the driver. Precision, scale and length are only
// meaningful when their Has flag is set.
type ColumnDescriptor struct {
	Name         string
	NativeType   string
	Precision    int64
	Scale        int64
	Length       int64
	HasPrecision bool
	HasScale     bool
	HasLength    bool
}

// ResultSet is the in-memory table produced by one query execution. Rows are
// aligned positionally with Columns; values may be nil.
type ResultSet struct {
	Columns []ColumnDescriptor
	Rows    [][]interface{}
}

// Empty reports whether the result set contains no rows.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Rows) == 0
}

// TargetIdentifier names the destination table as schema + table.
type TargetIdentifier struct {
	Schema string
	Table  string
}

// DefaultSchema is used when the target is given as a bare table name.
const DefaultSchema = "dbo"

// ParseTargetIdentifier splits "schema.table" on the first dot; a bare table
// name gets the default schema. Both parts are used verbatim afterwards.
func ParseTargetIdentifier(name string) TargetIdentifier {
	if schema, table, ok := strings.Cut(name, "."); ok {
		return TargetIdentifier{Schema: schema, Table: table}
	}
	return TargetIdentifier{Schema: DefaultSchema, Table: name}
}

// String returns the bracket-quoted two-part name.
func (t TargetIdentifier) String() string {
	return quoteIdent(t.Schema) + "." + quoteIdent(t.Table)
}

// RunStatus describes how a migration run ended.
type RunStatus string

const (
	// StatusCompleted means every fetched row was committed.
	StatusCompleted RunStatus = "completed"
	// StatusPartialLoad means the load stopped mid-transfer; batches
	// committed before the failure remain applied.
	StatusPartialLoad RunStatus = "partial"
)

// RunReport summarizes one migration run for the caller.
type RunReport struct {
	Status       RunStatus
	FetchedRows  int64
	InsertedRows int64
	// LoadErr is the recorded insert failure when Status is StatusPartialLoad.
	LoadErr error
}

var (
	// ErrSourceConnect marks a failure to reach the Oracle source.
	ErrSourceConnect = errors.New("oracle connection failed")
	// ErrDestConnect marks a failure to reach the SQL Server destination.
	ErrDestConnect = errors.New("sql server connection failed")
	// ErrRunFailed is the generic user-facing error for fatal run failures.
	// Full detail is in the run log only.
	ErrRunFailed = errors.New("migration failed: please refer to the log or report the issue")
)

// Migrator owns both connections for exactly one migration run.
type Migrator struct {
	source  *sql.DB
	dest    *sql.DB
	cleanup func()
	log     *runlog.Logger
	events  progress.Sink
}
