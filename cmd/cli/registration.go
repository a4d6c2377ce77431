package main

import (
	"context"

	"github.com/spf13/cobra"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

func init() {
	RegisterCommand.PersistentFlags().String("name", "", "full name")
	RegisterCommand.PersistentFlags().String("code", "", "student code")
	RegisterCommand.PersistentFlags().String("department", "", "department")
	RegisterCommand.PersistentFlags().String("class", "", "class")
	RegisterCommand.PersistentFlags().String("section", "", "section")
	RegisterCommand.PersistentFlags().String("campus", "", "campus")
	RegisterCommand.PersistentFlags().String("building", "", "building")
	RegisterCommand.PersistentFlags().String("contact", "", "contact number")

	RegistrationCommand.AddCommand(&RegisterCommand)
	RegistrationCommand.AddCommand(&RegistrationStatusCommand)
	RootCmd.AddCommand(&RegistrationCommand)
}

var RegistrationCommand = cobra.Command{
	Use:   "registration",
	Short: "Club membership",
	Long:  "Submit a membership request and check its status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var RegisterCommand = cobra.Command{
	Use:   "submit",
	Short: "Submit a membership request",
	Long:  "Submit a membership request; it stays pending until an admin approves it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		r := mcsc.Registration{
			Name:          cmd.Flag("name").Value.String(),
			Code:          cmd.Flag("code").Value.String(),
			Department:    cmd.Flag("department").Value.String(),
			Class:         cmd.Flag("class").Value.String(),
			Section:       cmd.Flag("section").Value.String(),
			Campus:        cmd.Flag("campus").Value.String(),
			Building:      cmd.Flag("building").Value.String(),
			ContactNumber: cmd.Flag("contact").Value.String(),
		}

		registered, err := createRegistrationClient().Register(context.Background(), r)
		if err != nil {
			if errors.IsConflict(err) {
				cmd.Println("You are already registered; ask your building admin about approval")
				return nil
			}
			return err
		}

		cmd.Printf("Registration submitted for %s, pending approval\n", registered.Code)
		return nil
	},
}

var RegistrationStatusCommand = cobra.Command{
	Use:   "status <code>",
	Short: "Check a registration",
	Long:  "Check whether a registration has been approved",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects a student code")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		r, err := createRegistrationClient().Status(context.Background(), args[0])
		if err != nil {
			return err
		}

		if r.Approved {
			cmd.Println("Approved, welcome to the club")
		} else {
			cmd.Println("Still pending")
		}
		return nil
	},
}
