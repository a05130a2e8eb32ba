package format

import (
	"bytes"
	"encoding/csv"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

// CSV renders one header row followed by one row per record, columns
// in the fixed per-kind order. Absent cells render empty; quoting and
// escaping follow encoding/csv.
type CSV struct{}

func (CSV) Serialize(payload *basis.Payload, records []basis.Record) ([]byte, error) {
	if payload == nil {
		return nil, basis.NewError(basis.ErrMalformed, "no payload to serialize")
	}
	columns := basis.Columns(payload.Kind)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			v := rec[col]
			if v.Present {
				row[i] = v.Raw
			} else {
				row[i] = ""
			}
		}
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
