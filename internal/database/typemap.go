package database

import (
	"fmt"
	"strings"
)

// SQL Server dialect limits.
const (
	maxCharLength = 4000
	maxPrecision  = 38
)

// MapType maps an Oracle column descriptor to a SQL Server column type
// declaration. Total: every input produces a declaration, unrecognized types
// fall back to NVARCHAR(255).
//
// Rule order matters. The substring checks are deliberately broad (any name
// containing "int" is an integer), so the number family must be tested before
// the integer rule or NUMBER-like names would misclassify.
func MapType(col ColumnDescriptor) string {
	dtype := strings.ToLower(strings.TrimSpace(col.NativeType))

	// CHAR, NCHAR, VARCHAR2, NVARCHAR2, ...
	if strings.Contains(dtype, "char") {
		if !col.HasLength {
			return fmt.Sprintf("NVARCHAR(%d)", maxCharLength)
		}
		if col.Length > maxCharLength {
			return "NVARCHAR(MAX)"
		}
		return fmt.Sprintf("NVARCHAR(%d)", col.Length)
	}

	if strings.Contains(dtype, "number") || strings.Contains(dtype, "decimal") || strings.Contains(dtype, "numeric") {
		switch {
		case !col.HasPrecision && !col.HasScale:
			// NUMBER with no precision
			return fmt.Sprintf("DECIMAL(%d,0)", maxPrecision)
		case col.HasPrecision && (!col.HasScale || col.Scale == 0):
			// NUMBER(p)
			return fmt.Sprintf("DECIMAL(%d,0)", col.Precision)
		case col.HasPrecision && col.HasScale:
			precision := col.Precision
			if precision > maxPrecision {
				precision = maxPrecision
			}
			scale := col.Scale
			if scale > precision {
				scale = precision
			}
			return fmt.Sprintf("DECIMAL(%d,%d)", precision, scale)
		}
		// scale without precision; safe fallback
		return fmt.Sprintf("DECIMAL(%d,10)", maxPrecision)
	}

	if strings.Contains(dtype, "int") {
		return "INT"
	}

	// FLOAT, BINARY_FLOAT, BINARY_DOUBLE
	if strings.Contains(dtype, "float") || strings.Contains(dtype, "double") {
		return "FLOAT"
	}

	if strings.Contains(dtype, "date") || strings.Contains(dtype, "timestamp") {
		return "DATETIME2"
	}

	if strings.Contains(dtype, "time") {
		return "TIME"
	}

	if strings.Contains(dtype, "clob") {
		return "NVARCHAR(MAX)"
	}

	if strings.Contains(dtype, "blob") || strings.Contains(dtype, "raw") || strings.Contains(dtype, "bfile") {
		return "VARBINARY(MAX)"
	}

	if strings.Contains(dtype, "xml") {
		return "XML"
	}

	// LONG, LONG VARCHAR (bare; LONG RAW is caught above)
	if strings.Contains(dtype, "long") {
		return "NVARCHAR(MAX)"
	}

	return "NVARCHAR(255)"
}
