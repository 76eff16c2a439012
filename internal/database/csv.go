package database

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// utf8BOM makes the export open cleanly in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SnapshotPath returns the per-run CSV file name for a target table.
func SnapshotPath(table string) string {
	return fmt.Sprintf("%s_fetched_data.csv", table)
}

// WriteSnapshot serializes the result set to path as UTF-8 CSV with a byte
// order mark, a header row of column names, and empty fields for NULLs.
func WriteSnapshot(path string, rs *ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)

	header := make([]string, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, v := range row {
			record[i] = formatField(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
