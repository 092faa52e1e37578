package main

import (
	"github.com/trezcool/elimu/core/user"
)

// addUser creates a user.User with the given role.
func (cli *commandLine) addUser(email, first, last, role, pwd string) error {
	data := user.NewUser{
		Email:           email,
		FirstName:       first,
		LastName:        last,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := data.Validate(cli.usrSvc); err != nil {
		return err
	}
	_, err := cli.usrSvc.Create(data)
	return err
}
