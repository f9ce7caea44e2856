package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"index", "peak_index", "peak", "cycle", "target", "increment", "displacement"}

// WriteCSV writes one line per step. Unapplied steps leave displacement empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range t.Rows {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.PeakIndex),
			strconv.FormatFloat(r.Peak, 'g', -1, 64),
			strconv.Itoa(r.Cycle),
			strconv.FormatFloat(r.Target, 'f', 6, 64),
			strconv.FormatFloat(r.Increment, 'f', 6, 64),
			"",
		}
		if r.Applied {
			row[6] = strconv.FormatFloat(r.Displacement, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
