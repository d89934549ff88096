package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if _, err := cli.usrSvc.SetPassword(context.Background(), email, pwd); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "password updated")
	return nil
}

func (cli *commandLine) setActive(email string, active bool) error {
	usr, err := cli.usrSvc.SetActive(context.Background(), email, active)
	if err != nil {
		return err
	}
	state := "deactivated"
	if usr.IsActive {
		state = "activated"
	}
	fmt.Fprintf(cli.out, "user %s %s\n", usr.Email, state)
	return nil
}
