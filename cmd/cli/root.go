package main

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tashrifatdiu/mcsc-client/auth"
	"github.com/tashrifatdiu/mcsc-client/bolt"
	"github.com/tashrifatdiu/mcsc-client/clients/journal"
	"github.com/tashrifatdiu/mcsc-client/clients/registration"
	"github.com/tashrifatdiu/mcsc-client/errors"
	"github.com/tashrifatdiu/mcsc-client/log"
)

// Configuration is the full TOML configuration of the client.
type Configuration struct {
	API struct {
		BaseURL string `toml:"base_url"`
	} `toml:"api"`

	Auth struct {
		BaseURL string `toml:"base_url"`
		APIKey  string `toml:"api_key"`
		JWTKey  string `toml:"jwt_key"`
	} `toml:"auth"`

	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`

	Bleve struct {
		Index string `toml:"index"`
	} `toml:"bleve"`

	Web struct {
		Addr string `toml:"addr"`
	} `toml:"web"`

	Google auth.GoogleCredentials `toml:"google"`
}

var (
	// flags
	env        string
	configFile string

	// loaded in PersistentPreRun
	logger log.Logger
	config Configuration
)

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file")
}

var RootCmd = cobra.Command{
	Use:   "mcsc",
	Short: "The Math & Science Club companion",
	Long:  "Browse, write and publish club journals, and manage registrations",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = log.New(env)

		if configFile == "" {
			configFile = path.Join("configuration", fmt.Sprintf("config.%s.toml", env))
		}
	},
}

func loadConfig() error {
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return errors.New(fmt.Sprintf("could not read configuration file %s", configFile), errors.WithCause(err))
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return errors.New("could not parse configuration", errors.WithCause(err))
	}
	return nil
}

// createDriver opens the local cache database from the configuration.
func createDriver() (*bolt.Driver, func(), error) {
	driver := &bolt.Driver{}
	if err := driver.Open(config.Bolt.Store); err != nil {
		return nil, func() {}, err
	}
	return driver, func() { driver.Close() }, nil
}

// createAuth builds the identity client on top of the stored session.
func createAuth(driver *bolt.Driver) *auth.Client {
	store := &bolt.SessionStore{Driver: driver}
	return auth.NewClient(http.DefaultClient, config.Auth.BaseURL, config.Auth.APIKey, store)
}

func createJournalClient(tokens *auth.Client) *journal.Client {
	return journal.NewClient(http.DefaultClient, config.API.BaseURL, tokens)
}

func createRegistrationClient() *registration.Client {
	return registration.NewClient(http.DefaultClient, config.API.BaseURL, nil)
}
