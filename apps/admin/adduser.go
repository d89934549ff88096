package main

import (
	"context"
	"fmt"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
)

// addUser creates an active user.User
func (cli *commandLine) addUser(nu user.NewUser) error {
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %d created: %s <%s>\n", usr.ID, usr.Name, usr.Email)
	return nil
}
