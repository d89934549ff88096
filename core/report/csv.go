package report

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const utf8BOM = "\ufeff"

// writeCSV emits RFC 4180 CSV prefixed with a UTF-8 BOM. Several tables are
// written one after another, each preceded by its title and separated by a
// blank line.
func writeCSV(w io.Writer, tables []table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return errors.Wrap(err, "writing bom")
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	for i, t := range tables {
		if len(tables) > 1 {
			if i > 0 {
				if err := cw.Write([]string{""}); err != nil {
					return errors.Wrap(err, "writing separator")
				}
			}
			if err := cw.Write([]string{t.title}); err != nil {
				return errors.Wrap(err, "writing title")
			}
		}
		if err := cw.Write(t.headers); err != nil {
			return errors.Wrap(err, "writing header")
		}
		for _, row := range t.rows {
			if err := cw.Write(t.texts(row)); err != nil {
				return errors.Wrap(err, "writing row")
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}
