package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
)

func seedSource(t *testing.T, n int) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE [emp] ([ID] INTEGER, [NAME] TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 1; i <= n; i++ {
		if _, err := db.Exec("INSERT INTO [emp] ([ID], [NAME]) VALUES (?, ?)", i, "emp"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func TestFetchResultSet(t *testing.T) {
	src := seedSource(t, 12)

	var events []progress.Event
	rs, err := fetchResultSet(context.Background(), src, "SELECT ID, NAME FROM emp ORDER BY ID", 5, collectEvents(&events))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(rs.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(rs.Columns))
	}
	if rs.Columns[0].Name != "ID" || rs.Columns[1].Name != "NAME" {
		t.Fatalf("column order = %s, %s", rs.Columns[0].Name, rs.Columns[1].Name)
	}
	if len(rs.Rows) != 12 {
		t.Fatalf("rows = %d, want 12", len(rs.Rows))
	}

	// Chunks of 5: cumulative events at 5, 10, and the trailing partial 12.
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, want := range []int64{5, 10, 12} {
		if events[i].Type != progress.EventFetch || events[i].Rows != want {
			t.Fatalf("event %d = %+v, want fetch/%d", i, events[i], want)
		}
	}
}

func TestFetchEmptyResult(t *testing.T) {
	src := seedSource(t, 0)

	var events []progress.Event
	rs, err := fetchResultSet(context.Background(), src, "SELECT ID, NAME FROM emp", 5, collectEvents(&events))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !rs.Empty() {
		t.Fatalf("expected empty result set")
	}
	if len(rs.Columns) != 2 {
		t.Fatalf("metadata must survive an empty result, got %d columns", len(rs.Columns))
	}
	if len(events) != 0 {
		t.Fatalf("expected no fetch events, got %d", len(events))
	}
}

func TestFetchBadQuery(t *testing.T) {
	src := seedSource(t, 1)

	if _, err := fetchResultSet(context.Background(), src, "SELECT * FROM no_such_table", 5, nil); err == nil {
		t.Fatal("expected an error for a bad query")
	}
}

// Round-trip: rows fetched from the source load into the destination intact.
func TestFetchThenLoadRoundTrip(t *testing.T) {
	src := seedSource(t, 37)

	rs, err := fetchResultSet(context.Background(), src, "SELECT ID, NAME FROM emp ORDER BY ID", fetchChunkSize, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	dest := openTestDB(t)
	if _, err := dest.Exec("CREATE TABLE [emp_copy] ([ID] INTEGER, [NAME] TEXT)"); err != nil {
		t.Fatalf("create dest table: %v", err)
	}

	inserted, err := loadBatches(context.Background(), dest, rs, testTarget("emp_copy"), 10, nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if inserted != 37 {
		t.Fatalf("inserted = %d, want 37", inserted)
	}

	rows, err := dest.Query("SELECT ID, NAME FROM emp_copy ORDER BY ID")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if id != int64(i+1) || name != "emp" {
			t.Fatalf("row %d = (%d, %q)", i, id, name)
		}
		i++
	}
	if i != 37 {
		t.Fatalf("read back %d rows, want 37", i)
	}
}
