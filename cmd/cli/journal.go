package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

func init() {
	JournalCommand.PersistentFlags().Int("limit", 20, "maximum number of journals")
	JournalCommand.PersistentFlags().Bool("mine", false, "only list your journals")
	JournalCommand.AddCommand(&JournalListCommand)
	JournalCommand.AddCommand(&JournalShowCommand)
	JournalCommand.AddCommand(&JournalPublishCommand)
	JournalCommand.AddCommand(&JournalDeleteCommand)
	RootCmd.AddCommand(&JournalCommand)
}

var JournalCommand = cobra.Command{
	Use:   "journal",
	Short: "Browse and manage journals",
	Long:  "List, read, publish and delete club journals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var JournalListCommand = cobra.Command{
	Use:   "list",
	Short: "List journals",
	Long:  "List published journals; --mine restricts to yours",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		filters := mcsc.JournalFilters{}
		filters.Limit, _ = strconv.Atoi(cmd.Flag("limit").Value.String())
		filters.Mine, _ = cmd.Flags().GetBool("mine")

		client := createJournalClient(createAuth(driver))
		journals, err := client.List(context.Background(), filters)
		if err != nil {
			return err
		}

		for _, j := range journals {
			cmd.Printf("%s  %-40s  by %s\n", j.ID, j.Title, j.AuthorName)
		}
		cmd.Printf("%d journal(s)\n", len(journals))
		return nil
	},
}

var JournalShowCommand = cobra.Command{
	Use:   "show <id>",
	Short: "Show one journal",
	Long:  "Print the stored form of one journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects a journal id")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		client := createJournalClient(createAuth(driver))
		j, err := client.Get(context.Background(), args[0])
		if err != nil {
			return err
		}

		cmd.Printf("Title:   %s\n", j.Title)
		cmd.Printf("Author:  %s\n", j.AuthorName)
		cmd.Printf("Draft:   %t\n", j.IsDraft)
		cmd.Println()
		cmd.Println(j.BodyHTML)
		return nil
	},
}

var JournalPublishCommand = cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a draft",
	Long:  "Validate a draft and flip it to published",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects a journal id")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		client := createJournalClient(createAuth(driver))
		ctx := context.Background()

		j, err := client.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !j.IsDraft {
			cmd.Println("Already published")
			return nil
		}

		session, err := loadSession(j)
		if err != nil {
			return err
		}

		auto := newAutosave(session, client, args[0])
		defer auto.Stop()
		if _, err := auto.Publish(ctx); err != nil {
			return err
		}

		// The local draft copy is no longer needed.
		drafts := draftStore(driver)
		drafts.Delete(args[0])

		cmd.Printf("<Journal %s> published\n", args[0])
		return nil
	},
}

var JournalDeleteCommand = cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal",
	Long:  "Delete a journal you own",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects a journal id")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		client := createJournalClient(createAuth(driver))
		if err := client.Delete(context.Background(), args[0]); err != nil {
			return err
		}

		draftStore(driver).Delete(args[0])
		cmd.Printf("<Journal %s> deleted\n", args[0])
		return nil
	},
}
