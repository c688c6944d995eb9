package adapters

import (
	"io"
	"strings"

	"github.com/reproforge/reproconv/convert/record"
)

// nbdcTypeTokens translates the alternate dialect's field-type vocabulary
// into the canonical (type token, validation token) pairs. Unlisted tokens
// pass through unchanged and fail later in type mapping, which reports them
// with field context.
var nbdcTypeTokens = map[string]struct{ token, validation string }{
	"text":          {"text", ""},
	"alphanumeric":  {"text", ""},
	"string":        {"text", ""},
	"textarea":      {"notes", ""},
	"email":         {"text", "email"},
	"phone":         {"text", "phone"},
	"integer":       {"text", "integer"},
	"float":         {"text", "float"},
	"decimal":       {"text", "float"},
	"number":        {"text", "float"},
	"select":        {"dropdown", ""},
	"radio":         {"radio", ""},
	"dropdown":      {"dropdown", ""},
	"checkbox":      {"radio", ""},
	"multicheckbox": {"checkbox", ""},
	"yesno":         {"yesno", ""},
	"truefalse":     {"truefalse", ""},
	"calculated":    {"calc", ""},
	"descriptive":   {"descriptive", ""},
	"note":          {"descriptive", ""},
	"file":          {"file", ""},
	"date":          {"text", "date_ymd"},
	"datetime":      {"text", "datetime_"},
	"time":          {"text", "time_"},
}

// ReadNBDCDictionary parses the alternate snake-case dictionary dialect. It
// shares the row machinery with ReadDictionary and differs only in column
// names and in the field-type vocabulary, which it normalizes to the
// canonical tokens before anything downstream sees the records.
func ReadNBDCDictionary(run *record.Run, r io.Reader, cols ColumnMap, delim rune) ([]record.FieldRecord, error) {
	if cols == nil {
		cols = DefaultNBDCColumns()
	}
	return readDictionary(run, r, cols, delim, normalizeNBDCType)
}

func normalizeNBDCType(rec *record.FieldRecord) {
	mapped, ok := nbdcTypeTokens[strings.ToLower(rec.TypeToken)]
	if !ok {
		return
	}
	rec.TypeToken = mapped.token
	if rec.Validation == "" {
		rec.Validation = mapped.validation
	}
}
