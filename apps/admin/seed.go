package main

import (
	"context"
	"fmt"

	"github.com/LionGab/sistema-disciplinar-jupiara/storage/seed"
)

func (cli *commandLine) seed(sample bool) error {
	res, err := seed.Run(context.Background(), cli.repos, sample)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "inserted %d classes, %d occurrence types, %d students, %d occurrences, %d absences\n",
		res.Classes, res.Types, res.Students, res.Occurrences, res.Absences)
	return nil
}
