package interchange

// mapping.go orchestrates header matching across a whole header row and
// tracks the caller's manual corrections.
//
// MappingResult is an immutable value: AnalyzeHeaders builds one from
// scratch, and UpdateMapping returns a new, fully recomputed result rather
// than patching the old one. Recomputing the derived sets every time keeps
// the at-most-one-column-per-field invariant trivially true after any
// sequence of reassignments; header rows are tens of columns, so the cost
// is irrelevant.

// ColumnMapping pairs one source column with its mapped target field.
// Field is FieldNone for unmapped columns, in which case Confidence is
// meaningless and held at zero.
type ColumnMapping struct {
	Index      int         `json:"index"`
	Header     string      `json:"header"`
	Field      TargetField `json:"field,omitempty"`
	Confidence float64     `json:"confidence"`
}

// MappingResult is the aggregate outcome of analyzing one header row.
type MappingResult struct {
	Columns         []ColumnMapping `json:"columns"`
	UnmappedColumns []int           `json:"unmappedColumns"`
	MissingRequired []TargetField   `json:"missingRequired"`
	Valid           bool            `json:"valid"`
}

// AnalyzeHeaders matches every header in the row and assembles the full
// mapping result. Pure function of its input: the same header list always
// yields the same result. If two columns match the same field, the earlier
// column keeps it and the later column is left unmapped.
func AnalyzeHeaders(headers []string) MappingResult {
	columns := make([]ColumnMapping, len(headers))
	claimed := make(map[TargetField]bool, len(headers))

	for i, header := range headers {
		cm := ColumnMapping{Index: i, Header: header}
		if m := MatchHeader(header); m.Field != FieldNone && !claimed[m.Field] {
			cm.Field = m.Field
			cm.Confidence = m.Confidence
			claimed[m.Field] = true
		}
		columns[i] = cm
	}

	return finalizeMapping(columns)
}

// UpdateMapping reassigns one column's target field and returns a new,
// fully recomputed result. Assigning a field already held by another column
// clears that other column, preserving the one-column-per-field invariant.
// FieldNone unmaps the column. Manual assignments carry confidence 1.0:
// an explicit user choice outranks any heuristic score.
func UpdateMapping(result MappingResult, index int, field TargetField) MappingResult {
	columns := make([]ColumnMapping, len(result.Columns))
	copy(columns, result.Columns)

	if index < 0 || index >= len(columns) {
		return finalizeMapping(columns)
	}

	if field != FieldNone {
		for i := range columns {
			if i != index && columns[i].Field == field {
				columns[i].Field = FieldNone
				columns[i].Confidence = 0
			}
		}
		columns[index].Field = field
		columns[index].Confidence = 1.0
	} else {
		columns[index].Field = FieldNone
		columns[index].Confidence = 0
	}

	return finalizeMapping(columns)
}

// ColumnFor returns the column index mapped to a field, or -1 if the field
// is not covered.
func (r MappingResult) ColumnFor(field TargetField) int {
	for _, cm := range r.Columns {
		if cm.Field == field {
			return cm.Index
		}
	}
	return -1
}

// finalizeMapping derives the unmapped set, the missing-required set, and
// validity from the column list. Iteration over Fields keeps the derived
// slices in declaration order.
func finalizeMapping(columns []ColumnMapping) MappingResult {
	result := MappingResult{Columns: columns}

	covered := make(map[TargetField]bool, len(columns))
	for _, cm := range columns {
		if cm.Field == FieldNone {
			result.UnmappedColumns = append(result.UnmappedColumns, cm.Index)
		} else {
			covered[cm.Field] = true
		}
	}

	for _, spec := range Fields {
		if spec.Required && !covered[spec.Field] {
			result.MissingRequired = append(result.MissingRequired, spec.Field)
		}
	}

	result.Valid = len(result.MissingRequired) == 0
	return result
}
