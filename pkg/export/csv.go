package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSV writes comma-separated files. The header starts with an empty cell
// above the row index column; missing values are written as empty fields.
type CSV struct{}

// Ext implements Exporter.
func (CSV) Ext() string { return "csv" }

// WriteTable implements Exporter.
func (CSV) WriteTable(path string, t Table) (err error) {
	if err := t.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "")
	header = append(header, t.Columns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Columns)+1)
	for i, row := range t.Rows {
		record[0] = strconv.Itoa(i)
		for j, cell := range row {
			if cell == nil {
				record[j+1] = ""
			} else {
				record[j+1] = *cell
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
