package adapters

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/reproforge/reproconv/convert/choices"
	"github.com/reproforge/reproconv/convert/record"
)

// WriteDictionary emits field records as a data-dictionary CSV using the
// given column mapping. delim overrides the field separator (0 means comma).
// Canonical columns come first in the stock order; passthrough metadata
// columns follow, sorted by name so output is deterministic.
func WriteDictionary(w io.Writer, recs []record.FieldRecord, cols ColumnMap, delim rune) error {
	if cols == nil {
		cols = DefaultREDCapColumns()
	}

	metaCols := metadataColumns(recs)

	header := make([]string, 0, len(emitOrder)+len(metaCols))
	for _, role := range emitOrder {
		name, ok := cols[role]
		if !ok {
			name = string(role)
		}
		header = append(header, name)
	}
	header = append(header, metaCols...)

	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := cw.Write(recordToRow(rec, metaCols)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordToRow(rec record.FieldRecord, metaCols []string) []string {
	row := make([]string, 0, len(emitOrder)+len(metaCols))
	for _, role := range emitOrder {
		row = append(row, cellFor(rec, role))
	}
	for _, col := range metaCols {
		row = append(row, rec.Metadata[col])
	}
	return row
}

func cellFor(rec record.FieldRecord, role Role) string {
	switch role {
	case RoleFieldName:
		return rec.ID
	case RoleActivity:
		return rec.Activity
	case RolePreamble:
		return rec.Preamble
	case RoleFieldType:
		return rec.TypeToken
	case RoleLabel:
		return rec.Label
	case RoleChoices:
		// Same shared column as on input: a calculation for computed
		// fields, the encoded choice list otherwise.
		if rec.Computed() {
			return rec.Calculation
		}
		return choices.Encode(rec.Choices)
	case RoleNote:
		return rec.Note
	case RoleValidation:
		return rec.Validation
	case RoleMinValue:
		return rec.MinValue
	case RoleMaxValue:
		return rec.MaxValue
	case RoleBranching:
		return rec.Branching
	case RoleRequired:
		if rec.Required {
			return "y"
		}
		return ""
	}
	return ""
}

func metadataColumns(recs []record.FieldRecord) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range recs {
		for k := range rec.Metadata {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
