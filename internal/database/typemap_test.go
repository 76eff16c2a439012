package database

import "testing"

func col(dtype string) ColumnDescriptor {
	return ColumnDescriptor{Name: "C", NativeType: dtype}
}

func colLen(dtype string, length int64) ColumnDescriptor {
	c := col(dtype)
	c.Length, c.HasLength = length, true
	return c
}

func colNum(dtype string, precision, scale int64) ColumnDescriptor {
	c := col(dtype)
	c.Precision, c.HasPrecision = precision, true
	c.Scale, c.HasScale = scale, true
	return c
}

func TestMapType(t *testing.T) {
	tests := []struct {
		name string
		col  ColumnDescriptor
		want string
	}{
		{"varchar2 sized", colLen("VARCHAR2", 100), "NVARCHAR(100)"},
		{"varchar2 at limit", colLen("VARCHAR2", 4000), "NVARCHAR(4000)"},
		{"varchar2 over limit", colLen("VARCHAR2", 4001), "NVARCHAR(MAX)"},
		{"char no length", col("CHAR"), "NVARCHAR(4000)"},
		{"nvarchar2", colLen("NVARCHAR2", 255), "NVARCHAR(255)"},
		{"nchar", colLen("NCHAR", 10), "NVARCHAR(10)"},

		{"number bare", col("NUMBER"), "DECIMAL(38,0)"},
		{"number precision only", colNum("NUMBER", 10, 0), "DECIMAL(10,0)"},
		{"number p and s", colNum("NUMBER", 10, 2), "DECIMAL(10,2)"},
		{"number clamps", colNum("NUMBER", 40, 45), "DECIMAL(38,38)"},
		{"number scale over precision", colNum("NUMBER", 10, 12), "DECIMAL(10,10)"},
		{"decimal", colNum("DECIMAL", 18, 4), "DECIMAL(18,4)"},
		{"numeric not int", col("NUMERIC"), "DECIMAL(38,0)"},

		{"integer", col("INTEGER"), "INT"},
		{"int", col("INT"), "INT"},

		{"float", col("FLOAT"), "FLOAT"},
		{"binary_float", col("BINARY_FLOAT"), "FLOAT"},
		{"binary_double", col("BINARY_DOUBLE"), "FLOAT"},

		{"date", col("DATE"), "DATETIME2"},
		{"timestamp", col("TIMESTAMP"), "DATETIME2"},
		{"timestamp tz", col("TIMESTAMP(6) WITH TIME ZONE"), "DATETIME2"},
		{"time", col("TIME"), "TIME"},

		{"clob", col("CLOB"), "NVARCHAR(MAX)"},
		{"nclob", col("NCLOB"), "NVARCHAR(MAX)"},
		{"blob", col("BLOB"), "VARBINARY(MAX)"},
		{"raw", col("RAW"), "VARBINARY(MAX)"},
		{"long raw", col("LONG RAW"), "VARBINARY(MAX)"},
		{"bfile", col("BFILE"), "VARBINARY(MAX)"},
		{"xmltype", col("XMLTYPE"), "XML"},
		{"long", col("LONG"), "NVARCHAR(MAX)"},

		{"unknown", col("SDO_GEOMETRY"), "NVARCHAR(255)"},
		{"empty", col(""), "NVARCHAR(255)"},
		{"mixed case trims", col("  VarChar2  "), "NVARCHAR(4000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapType(tt.col); got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.col.NativeType, got, tt.want)
			}
		})
	}
}

// The precision-only form must not be clamped away from what the source
// declared, and a stray scale without precision falls back conservatively.
func TestMapTypeNumberEdges(t *testing.T) {
	c := col("NUMBER")
	c.Scale, c.HasScale = 5, true
	if got := MapType(c); got != "DECIMAL(38,10)" {
		t.Fatalf("scale-only NUMBER = %q, want DECIMAL(38,10)", got)
	}

	c = colNum("NUMBER", 20, 0)
	c.HasScale = false
	if got := MapType(c); got != "DECIMAL(20,0)" {
		t.Fatalf("NUMBER(20) = %q, want DECIMAL(20,0)", got)
	}
}
