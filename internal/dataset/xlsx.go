package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX writes the dataset to an XLSX workbook with a single sheet,
// header row first.
func (d *Dataset) WriteXLSX(path, sheet string) error {
	f := xlsx.NewFile()
	sh, err := f.AddSheet(sheet)
	if err != nil {
		return eris.Wrapf(err, "dataset: add sheet %q", sheet)
	}

	header := sh.AddRow()
	for _, name := range d.cols {
		header.AddCell().SetString(name)
	}
	for _, row := range d.rows {
		r := sh.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(f.Save(path), "dataset: save %s", path)
}
