package models

// Dialect describes how raw CSV bytes were turned into rows and columns.
type Dialect struct {
	Encoding  string `json:"encoding" yaml:"encoding"`   // utf-8-sig | cp1252 | latin1
	Delimiter rune   `json:"delimiter" yaml:"delimiter"` // ';' | ',' | '\t'
}

// DelimiterName returns a printable name for the delimiter.
func (d Dialect) DelimiterName() string {
	switch d.Delimiter {
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case ',':
		return "comma"
	default:
		return string(d.Delimiter)
	}
}

// RawTable is a parsed CSV export before any interpretation of its columns.
type RawTable struct {
	Dialect Dialect
	Header  []string
	Rows    [][]string // every row padded to len(Header)
}

// Value returns the cell of row at column idx, or "" when idx is out of range.
func (t RawTable) Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Field is one of the canonical semantic columns of an oven export.
type Field string

const (
	FieldTimestamp Field = "timestamp"
	FieldDevice    Field = "device"
	FieldMessage   Field = "message"
	FieldSetpoint  Field = "setpoint"
	FieldActual    Field = "actual"
)

// Fields lists the canonical fields in resolution order.
var Fields = []Field{FieldTimestamp, FieldDevice, FieldMessage, FieldSetpoint, FieldActual}

// Column is a raw header resolved for a canonical field.
type Column struct {
	Header string `json:"header" yaml:"header"`
	Index  int    `json:"index" yaml:"index"`
}

// FieldMap maps canonical fields to the raw header they were resolved from.
// Missing keys mean the field was not found.
type FieldMap map[Field]Column

// Index returns the column index of f, or -1 when f is unresolved.
func (m FieldMap) Index(f Field) int {
	c, ok := m[f]
	if !ok {
		return -1
	}
	return c.Index
}

// Missing returns the canonical fields that have no column.
func (m FieldMap) Missing() []Field {
	var out []Field
	for _, f := range Fields {
		if _, ok := m[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}
