package main

import (
	"context"

	"github.com/spf13/cobra"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/bleve"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

func init() {
	IndexCommand.AddCommand(&IndexAllCommand)
	IndexCommand.AddCommand(&SearchCommand)
	RootCmd.AddCommand(&IndexCommand)
}

var IndexCommand = cobra.Command{
	Use:   "index",
	Short: "Maintain the local search index",
	Long:  "Rebuild and query the local full-text index over journals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var IndexAllCommand = cobra.Command{
	Use:   "all",
	Short: "Index every journal",
	Long:  "Fetch all journals from the API and rebuild the local index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		index, fi, err := createIndex()
		defer fi()
		if err != nil {
			return errors.New("error opening index", errors.WithCause(err))
		}

		client := createJournalClient(createAuth(driver))
		journals, err := client.List(context.Background(), mcsc.JournalFilters{})
		if err != nil {
			return err
		}

		for i := range journals {
			if err := index.Index(&journals[i]); err != nil {
				return errors.New("error indexing", errors.WithCause(err))
			}
			cmd.Printf("<Journal %s> indexed\n", journals[i].ID)
		}
		return nil
	},
}

var SearchCommand = cobra.Command{
	Use:   "search <query>",
	Short: "Search the local index",
	Long:  "Search journal titles and bodies in the local index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("this command expects a query")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		index, f, err := createIndex()
		defer f()
		if err != nil {
			return errors.New("error opening index", errors.WithCause(err))
		}

		res, err := index.Search(mcsc.JournalSearch{Q: args[0], Limit: 20})
		if err != nil {
			return err
		}

		for _, id := range res.IDs {
			cmd.Println(id)
		}
		cmd.Printf("%d result(s)\n", res.Total)
		return nil
	},
}

func createIndex() (*bleve.JournalIndex, func(), error) {
	index := &bleve.JournalIndex{}
	if err := index.Open(config.Bleve.Index); err != nil {
		return nil, func() {}, err
	}
	return index, func() { index.Close() }, nil
}
