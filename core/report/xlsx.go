package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const headerFill = "1F4E78"

func writeXLSX(w io.Writer, tables []table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	fills := make(map[string]int)
	fillStyle := func(color string) (int, error) {
		if id, ok := fills[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		fills[color] = id
		return id, err
	}

	for i, t := range tables {
		sheet := sheetName(t.title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return errors.Wrap(err, "naming first sheet")
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return errors.Wrapf(err, "creating sheet %q", sheet)
		}

		for c, h := range t.headers {
			if err := setCell(f, sheet, c+1, 1, h); err != nil {
				return err
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(t.headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return errors.Wrap(err, "styling header")
		}

		for r, row := range t.rows {
			for c, cl := range row {
				if err := setCell(f, sheet, c+1, r+2, cl.value); err != nil {
					return err
				}
				if cl.fill == "" {
					continue
				}
				style, err := fillStyle(cl.fill)
				if err != nil {
					return errors.Wrap(err, "creating fill style")
				}
				name, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellStyle(sheet, name, name, style); err != nil {
					return errors.Wrap(err, "styling cell")
				}
			}
		}

		for c, width := range t.widths {
			col, _ := excelize.ColumnNumberToName(c + 1)
			if err := f.SetColWidth(sheet, col, col, width); err != nil {
				return errors.Wrap(err, "setting column width")
			}
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return errors.Wrap(err, "freezing header")
		}
	}
	f.SetActiveSheet(0)

	_, err = f.WriteTo(w)
	return errors.Wrap(err, "writing workbook")
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return errors.Wrapf(f.SetCellValue(sheet, name, v), "setting %s!%s", sheet, name)
}

// sheetName keeps titles within the 31 character sheet name limit.
func sheetName(title string) string {
	r := []rune(title)
	if len(r) > excelize.MaxSheetNameLength {
		r = r[:excelize.MaxSheetNameLength]
	}
	return string(r)
}

// readXLSX returns the rows of the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("planilha vazia")
	}
	rows, err := f.GetRows(sheets[0])
	return rows, errors.Wrap(err, "reading rows")
}
