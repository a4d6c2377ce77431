package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tashrifatdiu/mcsc-client/auth"
	"github.com/tashrifatdiu/mcsc-client/bolt"
	"github.com/tashrifatdiu/mcsc-client/errors"
	"github.com/tashrifatdiu/mcsc-client/web"
)

func init() {
	RootCmd.AddCommand(&WebCommand)
}

var WebCommand = cobra.Command{
	Use:   "web",
	Short: "Serve the web front end",
	Long:  "Serve the journal and registration front end over HTTP",
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

		tokens := createAuth(driver)
		cfg := web.Config{
			Journals:      createJournalClient(tokens),
			Registrations: createRegistrationClient(),
			Drafts:        &bolt.DraftStore{Driver: driver},
			Index:         index,
			JWTKey:        []byte(config.Auth.JWTKey),
		}
		if config.Google.ClientID != "" {
			cfg.Google = auth.NewGoogleService(config.Google, tokens)
		}
		handler := web.NewServer(cfg)

		addr := config.Web.Addr
		if addr == "" {
			addr = ":1705"
		}

		logger.Printf("listening on %s", addr)
		return http.ListenAndServe(addr, handler)
	},
}
