package actlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

const (
	placeholder = "--"
	limitBreak  = "Limit Break"
	utf8BOM     = "\uFEFF"
)

var requiredColumns = []string{"Name", "Job", "Damage"}

var (
	ErrMalformed      = errors.New("malformed log export")
	ErrMissingHeaders = errors.New("log export is missing required columns")
)

// ParseStatus tells an empty export apart from one that could not be read.
type ParseStatus int

const (
	ParseOK ParseStatus = iota
	ParseEmpty
	ParseFailed
)

func (s ParseStatus) String() string {
	switch s {
	case ParseOK:
		return "ok"
	case ParseEmpty:
		return "empty"
	case ParseFailed:
		return "failed"
	}
	return "unknown"
}

// ParseOutcome is the result of reading one ACT export.
type ParseOutcome struct {
	Status ParseStatus
	// Err is set when Status is ParseFailed.
	Err error
	// Records is keyed by actor name and is empty unless Status is ParseOK.
	Records map[string]ActorRecord
	// Durations holds every positive Duration value across all data rows,
	// including rows that were skipped.
	Durations []int
}

// Parse reads a comma-separated ACT export whose first row is the header.
// Rows without a name or job, and the Limit Break pseudo-actor, are skipped.
// When a name appears twice the later row replaces the earlier one.
func Parse(raw string) ParseOutcome {
	out := ParseOutcome{Records: make(map[string]ActorRecord)}

	raw = strings.TrimPrefix(raw, utf8BOM)
	if strings.TrimSpace(raw) == "" {
		out.Status = ParseEmpty
		return out
	}

	// Every row must be as wide as the header; quotes are strict.
	r := csv.NewReader(strings.NewReader(raw))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 0
	rows, err := r.ReadAll()
	if err != nil {
		return failed(fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	if len(rows) == 0 {
		out.Status = ParseEmpty
		return out
	}

	header := make([]string, len(rows[0]))
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		index[header[i]] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return failed(fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", ")))
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for _, row := range rows[1:] {
		if d, ok := leadingInt(cell(row, "Duration")); ok && d > 0 {
			out.Durations = append(out.Durations, d)
		}

		name := cleanString(cell(row, "Name"))
		job := cleanString(cell(row, "Job"))
		if name == "" || job == "" || name == limitBreak {
			continue
		}

		rec := ActorRecord{Name: name, Job: job, Extra: make(map[string]string)}
		for i, col := range header {
			if i >= len(row) {
				break
			}
			key := strings.ToLower(col)
			switch key {
			case "name", "job":
				continue
			case "ally":
				rec.Ally = cleanString(row[i])
				continue
			}
			if spec, ok := metricFields[key]; ok {
				spec.apply(&rec.Metrics, row[i])
				continue
			}
			rec.Extra[key] = cleanString(row[i])
		}
		out.Records[name] = rec
	}

	if len(out.Records) == 0 {
		out.Status = ParseEmpty
		return out
	}
	out.Status = ParseOK
	return out
}

func failed(err error) ParseOutcome {
	return ParseOutcome{
		Status:  ParseFailed,
		Err:     err,
		Records: make(map[string]ActorRecord),
	}
}
