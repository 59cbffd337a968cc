package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMissingColumns means the mapping file header lacks required columns.
var ErrMissingColumns = errors.New("mapping file is missing required columns")

// Required header columns of a mapping file. Extra columns are allowed and
// ignored; order is free.
var requiredColumns = []string{
	"Legacy db",
	"Legacy schema",
	"Legacy table",
	"Legacy column",
	"CDL-STC schema",
	"CDL-STC table",
	"CDL-STC column",
	"Comment",
}

// Load reads a mapping table from a CSV file exported from the mapping spreadsheet.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("entries", t.Len()).Msg("mapping table loaded")
	return t, nil
}

// Parse reads CSV mapping rows from r and builds a validated Table.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[strings.ToLower(want)]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(rec []string, name string) string {
		return strings.TrimSpace(rec[cols[strings.ToLower(name)]])
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, Entry{
			LegacyDB:     field(rec, "Legacy db"),
			LegacySchema: field(rec, "Legacy schema"),
			LegacyTable:  field(rec, "Legacy table"),
			LegacyColumn: field(rec, "Legacy column"),
			TargetSchema: field(rec, "CDL-STC schema"),
			TargetTable:  field(rec, "CDL-STC table"),
			TargetColumn: field(rec, "CDL-STC column"),
			Comment:      field(rec, "Comment"),
		})
	}

	return New(entries)
}
