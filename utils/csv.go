package utils

import (
	"bytes"
	"encoding/csv"
)

// EncodeCSV renders a header row plus data rows as RFC 4180 CSV. Fields
// containing commas, quotes or newlines come back quoted, so a parse of the
// output restores the input verbatim.
func EncodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
