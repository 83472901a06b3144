package dataset

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// FromJSONRecords builds a dataset from raw JSON objects, one row per
// record. Columns are the union of keys across all records in first-seen
// order, matching the order the upstream service emitted them. Cell
// rendering: strings verbatim, numbers and booleans as their JSON literal,
// null and absent keys as the empty cell, nested values as compact JSON.
func FromJSONRecords(records []json.RawMessage) (*Dataset, error) {
	d := New()
	index := make(map[string]int)

	for n, rec := range records {
		row := make([]string, len(d.cols))

		dec := json.NewDecoder(bytes.NewReader(rec))
		tok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode record %d", n)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, eris.Errorf("dataset: record %d is not a JSON object", n)
		}

		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, eris.Wrapf(err, "dataset: decode record %d", n)
			}
			key := tok.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, eris.Wrapf(err, "dataset: decode record %d field %q", n, key)
			}
			cell, err := renderCell(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "dataset: render record %d field %q", n, key)
			}

			j, ok := index[key]
			if !ok {
				j = len(d.cols)
				index[key] = j
				d.cols = append(d.cols, key)
			}
			for len(row) <= j {
				row = append(row, "")
			}
			row[j] = cell
		}

		d.rows = append(d.rows, row)
	}

	// Earlier rows are narrower than columns discovered later; square them up.
	for i, row := range d.rows {
		for len(row) < len(d.cols) {
			row = append(row, "")
		}
		d.rows[i] = row
	}

	return d, nil
}

func renderCell(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", eris.Wrap(err, "unquote string")
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", eris.Wrap(err, "compact value")
		}
		return buf.String(), nil
	case 'n':
		return "", nil
	default:
		// number, true, false: the literal is the cell
		return string(raw), nil
	}
}
