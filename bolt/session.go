package bolt

import (
	"encoding/json"

	"github.com/boltdb/bolt"

	"github.com/tashrifatdiu/mcsc-client/auth"
)

var (
	sessionBucket = []byte("session")
	sessionKey    = []byte("current")
)

// SessionStore persists the auth session between runs, one session per
// database.
type SessionStore struct {
	Driver *Driver
}

// Load returns the stored session, (nil, nil) when signed out.
func (s *SessionStore) Load() (*auth.Session, error) {
	var session *auth.Session
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)

		data := bucket.Get(sessionKey)
		if data == nil {
			return nil
		}

		session = &auth.Session{}
		return json.Unmarshal(data, session)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Save overwrites the stored session.
func (s *SessionStore) Save(session *auth.Session) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionBucket).Put(sessionKey, data)
	})
}

// Clear drops the stored session.
func (s *SessionStore) Clear() error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}
