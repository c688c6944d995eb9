package adapters

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/reproforge/reproconv/convert/choices"
	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
)

// computeTokens are field types whose choices column holds a calculation
// expression instead of a choice list.
var computeTokens = map[string]bool{"calc": true, "sql": true}

// choiceTokens are field types whose choices column holds an enumerated list.
var choiceTokens = map[string]bool{
	"radio": true, "dropdown": true, "select": true,
	"checkbox": true, "slider": true,
}

// ReadDictionary parses a data-dictionary CSV into field records using the
// given column mapping. delim overrides the field separator (0 means comma).
// A header missing a required role is a fatal StructuralLoadFailure; per-row
// problems are collected on the run and the remaining rows still convert.
func ReadDictionary(run *record.Run, r io.Reader, cols ColumnMap, delim rune) ([]record.FieldRecord, error) {
	return readDictionary(run, r, cols, delim, nil)
}

// readDictionary is the shared reader. normalize, when non-nil, rewrites the
// dialect's type vocabulary onto the canonical tokens before the choices
// column is interpreted.
func readDictionary(run *record.Run, r io.Reader, cols ColumnMap, delim rune, normalize func(*record.FieldRecord)) ([]record.FieldRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if delim != 0 {
		reader.Comma = delim
	}

	header, err := reader.Read()
	if err != nil {
		return nil, cverr.New(cverr.StructuralLoadFailure, "", "",
			"cannot read dictionary header: %v", err)
	}
	idx, extras, err := indexHeader(header, cols)
	if err != nil {
		return nil, err
	}

	var recs []record.FieldRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cverr.New(cverr.StructuralLoadFailure, "", "",
				"cannot read dictionary row %d: %v", line+1, err)
		}
		line++

		rec := rowToRecord(run, row, idx, extras, normalize)
		if rec.ID == "" {
			continue // blank row
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// indexHeader maps roles to column positions and collects the positions of
// passthrough columns no role claims.
func indexHeader(header []string, cols ColumnMap) (map[Role]int, map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[cleanHeader(h)] = i
	}

	idx := make(map[Role]int, len(cols))
	claimed := make(map[int]bool, len(cols))
	for role, name := range cols {
		if i, ok := byName[cleanHeader(name)]; ok {
			idx[role] = i
			claimed[i] = true
		}
	}
	for _, role := range requiredRoles {
		if _, ok := idx[role]; !ok {
			return nil, nil, cverr.New(cverr.StructuralLoadFailure, "", "",
				"dictionary header is missing required column %q", cols[role])
		}
	}

	extras := make(map[string]int)
	for i, h := range header {
		if !claimed[i] {
			if name := cleanHeader(h); name != "" {
				extras[name] = i
			}
		}
	}
	return idx, extras, nil
}

// cleanHeader strips the UTF-8 byte-order mark, surrounding quotes and
// whitespace that spreadsheet exports leave on header cells.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.TrimSpace(h)
	h = strings.Trim(h, `"`)
	return strings.TrimSpace(h)
}

func rowToRecord(run *record.Run, row []string, idx map[Role]int, extras map[string]int, normalize func(*record.FieldRecord)) record.FieldRecord {
	cell := func(role Role) string {
		i, ok := idx[role]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := record.FieldRecord{
		ID:         cell(RoleFieldName),
		Activity:   cell(RoleActivity),
		Label:      cell(RoleLabel),
		TypeToken:  strings.ToLower(cell(RoleFieldType)),
		Validation: cell(RoleValidation),
		Branching:  cell(RoleBranching),
		Preamble:   cell(RolePreamble),
		Note:       cell(RoleNote),
		MinValue:   cell(RoleMinValue),
		MaxValue:   cell(RoleMaxValue),
		Required:   parseRequired(cell(RoleRequired)),
	}
	if normalize != nil {
		normalize(&rec)
	}

	// One column carries choices, calculations and slider labels; the field
	// type decides which reading applies.
	rawChoices := cell(RoleChoices)
	switch {
	case computeTokens[rec.TypeToken]:
		rec.Calculation = rawChoices
	case choiceTokens[rec.TypeToken] && rawChoices != "":
		cs, err := choices.Decode(rawChoices)
		if err != nil {
			var ce cverr.ConvertError
			if cverr.As(err, &ce) {
				ce.Activity = rec.Activity
				ce.Field = rec.ID
				run.Fail(ce)
			} else {
				run.Errors.Collect(err)
			}
		} else {
			rec.Choices = cs
		}
	}

	for name, i := range extras {
		if i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			if rec.Metadata == nil {
				rec.Metadata = make(map[string]string)
			}
			rec.Metadata[name] = v
		}
	}
	return rec
}

func parseRequired(v string) bool {
	switch strings.ToLower(v) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

