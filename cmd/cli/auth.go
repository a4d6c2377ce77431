package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

func init() {
	AuthCommand.AddCommand(&LoginCommand)
	AuthCommand.AddCommand(&LogoutCommand)
	AuthCommand.AddCommand(&WhoamiCommand)
	RootCmd.AddCommand(&AuthCommand)
}

var AuthCommand = cobra.Command{
	Use:   "auth",
	Short: "Manage your session",
	Long:  "Log in, log out and inspect the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var LoginCommand = cobra.Command{
	Use:   "login <email>",
	Short: "Log in with email and password",
	Long:  "Log in with email and password; the session is kept until logout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects an email as its only argument")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		cmd.Print("Password: ")
		password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return errors.New("could not read password", errors.WithCause(err))
		}
		password = strings.TrimRight(password, "\r\n")

		authClient := createAuth(driver)
		session, err := authClient.SignIn(context.Background(), args[0], password)
		if err != nil {
			return err
		}

		cmd.Printf("Logged in as %s\n", session.User.Email)
		return nil
	},
}

var LogoutCommand = cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Long:  "Revoke the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		if err := createAuth(driver).SignOut(context.Background()); err != nil {
			logger.Error("could not revoke the session remotely:", err)
		}
		cmd.Println("Logged out")
		return nil
	},
}

var WhoamiCommand = cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  "Show the signed-in user, refreshing the session if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		user, err := createAuth(driver).CurrentUser(context.Background())
		if err != nil {
			return err
		}
		if user == nil {
			cmd.Println("Not logged in")
			return nil
		}

		cmd.Println(fmt.Sprintf("%s <%s>", user.Name, user.Email))
		return nil
	},
}
