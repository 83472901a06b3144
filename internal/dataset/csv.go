package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// Read parses CSV from r. The first row is the header.
func Read(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("dataset: csv has no header row")
	}

	d := New(records[0]...)
	for _, row := range records[1:] {
		if err := d.Append(row); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Write emits the dataset as CSV to w, header row first.
func (d *Dataset) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.cols); err != nil {
		return eris.Wrap(err, "dataset: write csv header")
	}
	for _, row := range d.rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "dataset: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "dataset: flush csv")
}

// ReadCSV reads a CSV file into a dataset.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Read(f)
}

// WriteCSV writes the dataset to a CSV file, creating or truncating it.
func (d *Dataset) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}

	if err := d.Write(f); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	return eris.Wrapf(f.Close(), "dataset: close %s", path)
}
