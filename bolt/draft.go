package bolt

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	mcsc "github.com/tashrifatdiu/mcsc-client"
)

var draftBucket = []byte("drafts")

// DraftStore caches journal drafts locally, keyed by the API identity. Drafts
// survive a crash and can be listed without a network round trip.
type DraftStore struct {
	Driver *Driver
}

// Get retrieves the draft saved under id. Returns nil when there is none.
func (s *DraftStore) Get(id string) (*mcsc.Journal, error) {
	var journal *mcsc.Journal
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(draftBucket)

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		journal = &mcsc.Journal{}
		return json.Unmarshal(data, journal)
	})
	if err != nil {
		return nil, err
	}

	return journal, nil
}

// List returns every cached draft.
func (s *DraftStore) List() ([]*mcsc.Journal, error) {
	var journals []*mcsc.Journal

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(draftBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var journal mcsc.Journal
			if err := json.Unmarshal(data, &journal); err != nil {
				return err
			}
			journals = append(journals, &journal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return journals, nil
}

// Upsert inserts or updates the cached copy of a draft.
func (s *DraftStore) Upsert(journal *mcsc.Journal) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(draftBucket)

		if journal.CreatedAt.IsZero() {
			journal.CreatedAt = time.Now()
		}
		journal.UpdatedAt = time.Now()

		data, err := json.Marshal(journal)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(journal.ID), data)
	})
}

// Delete drops the cached draft, typically after a publish.
func (s *DraftStore) Delete(id string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(draftBucket)
		return bucket.Delete([]byte(id))
	})
}
