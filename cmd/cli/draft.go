package main

import (
	"context"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/bolt"
	"github.com/tashrifatdiu/mcsc-client/clients/journal"
	"github.com/tashrifatdiu/mcsc-client/editor"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

func init() {
	DraftWatchCommand.PersistentFlags().String("title", "", "journal title")
	DraftWatchCommand.PersistentFlags().String("id", "", "existing journal id to update")
	DraftCommand.AddCommand(&DraftListCommand)
	DraftCommand.AddCommand(&DraftWatchCommand)
	RootCmd.AddCommand(&DraftCommand)
}

var DraftCommand = cobra.Command{
	Use:   "draft",
	Short: "Work with drafts",
	Long:  "List cached drafts and write drafts from local files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var DraftListCommand = cobra.Command{
	Use:   "list",
	Short: "List locally cached drafts",
	Long:  "List the drafts cached in the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		driver, f, err := createDriver()
		defer f()
		if err != nil {
			return errors.New("error opening db", errors.WithCause(err))
		}

		drafts, err := draftStore(driver).List()
		if err != nil {
			return err
		}

		for _, d := range drafts {
			cmd.Printf("%s  %-40s  updated %s\n", d.ID, d.Title, d.UpdatedAt.Format(time.RFC822))
		}
		cmd.Printf("%d draft(s)\n", len(drafts))
		return nil
	},
}

// DraftWatchCommand drives the autosave controller from a local HTML file:
// every change to the file becomes an edit, and the controller debounces them
// into draft saves.
var DraftWatchCommand = cobra.Command{
	Use:   "watch <file>",
	Short: "Autosave a local HTML file as a draft",
	Long:  "Watch a local HTML file and keep it saved as a draft while you edit it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("this command expects an html file")
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

		session := editor.NewSession(nil)
		session.SetTitle(cmd.Flag("title").Value.String())

		auto := newAutosave(session, client, cmd.Flag("id").Value.String())
		defer auto.Stop()

		apply := func() error {
			body, err := ioutil.ReadFile(args[0])
			if err != nil {
				return errors.New("could not read file", errors.WithCause(err))
			}
			if session.Surface().HTML() == string(body) {
				return nil
			}
			if err := session.Surface().SetHTML(string(body)); err != nil {
				return err
			}
			session.MarkDirty()
			return nil
		}
		if err := apply(); err != nil {
			return err
		}

		cmd.Printf("Watching %s, ctrl-c to stop\n", args[0])

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := apply(); err != nil {
					logger.Error(err)
				}
				cacheDraft(driver, auto, session)
			case <-stop:
				// Flush whatever is pending before quitting.
				if err := auto.SaveNow(context.Background()); err != nil {
					return err
				}
				cacheDraft(driver, auto, session)
				if auto.ID() != "" {
					cmd.Printf("Draft saved as <Journal %s>\n", auto.ID())
				}
				return nil
			}
		}
	},
}

func draftStore(driver *bolt.Driver) *bolt.DraftStore {
	return &bolt.DraftStore{Driver: driver}
}

// cacheDraft mirrors the current session into the local draft cache once the
// journal has an identity.
func cacheDraft(driver *bolt.Driver, auto *editor.Autosave, session *editor.Session) {
	id := auto.ID()
	if id == "" {
		return
	}

	p := session.Assemble(true)
	draftStore(driver).Upsert(&mcsc.Journal{
		ID:            id,
		Title:         p.Title,
		BodyHTML:      p.BodyHTML,
		FontFamily:    p.FontFamily,
		Color:         p.Color,
		LatexSnippets: p.LatexSnippets,
		Images:        p.Images,
		Citations:     p.Citations,
		Footnotes:     p.Footnotes,
		IsDraft:       true,
	})
}

func loadSession(j mcsc.Journal) (*editor.Session, error) {
	session := editor.NewSession(nil)
	err := session.Load(editor.Payload{
		Title:         j.Title,
		FontFamily:    j.FontFamily,
		Color:         j.Color,
		BodyHTML:      j.BodyHTML,
		LatexSnippets: j.LatexSnippets,
		Images:        j.Images,
		Citations:     j.Citations,
		Footnotes:     j.Footnotes,
		IsDraft:       j.IsDraft,
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// newAutosave binds the controller to the API client, updating id when it is
// already known.
func newAutosave(session *editor.Session, client *journal.Client, id string) *editor.Autosave {
	return editor.NewAutosave(session, &boundSaver{client: client, id: id}, logger)
}

// boundSaver routes the first save to Update when the journal already exists.
type boundSaver struct {
	client *journal.Client
	id     string
}

func (s *boundSaver) Create(ctx context.Context, p editor.Payload) (string, error) {
	if s.id != "" {
		return s.id, s.client.Update(ctx, s.id, p)
	}
	id, err := s.client.Create(ctx, p)
	if err == nil {
		s.id = id
	}
	return id, err
}

func (s *boundSaver) Update(ctx context.Context, id string, p editor.Payload) error {
	return s.client.Update(ctx, id, p)
}
