package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
)

// importStudents validates the sheet at path and, with save, stores every row.
func (cli *commandLine) importStudents(path string, save bool) error {
	format, err := report.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil || format == report.PDF {
		return errors.New("formato de importação inválido (use xlsx ou csv)")
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening sheet")
	}
	defer f.Close()

	parsed, created, err := cli.reportSvc.Import(context.Background(), f, format, save)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d students parsed, %d imported\n", len(parsed), len(created))
	return nil
}

func (cli *commandLine) export(kind, format, dir string, filter report.Filter) error {
	k, err := report.ParseKind(kind)
	if err != nil {
		return err
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	res, err := cli.reportSvc.Export(context.Background(), k, f, filter)
	if err != nil {
		return err
	}
	dest, err := report.WriteFile(dir, res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, dest)
	return nil
}
