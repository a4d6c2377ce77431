package mock

import (
	"fmt"
	"sync"

	mcsc "github.com/tashrifatdiu/mcsc-client"
)

// DraftStore is an in-memory draft cache for tests and for the web front end
// when no database path is configured.
type DraftStore struct {
	mu     sync.Mutex
	db     map[string]*mcsc.Journal
	nextID int
}

func (s *DraftStore) Get(id string) (*mcsc.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, nil
	}
	return s.db[id], nil
}

func (s *DraftStore) List() ([]*mcsc.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	journals := make([]*mcsc.Journal, 0, len(s.db))
	for _, j := range s.db {
		journals = append(journals, j)
	}
	return journals, nil
}

func (s *DraftStore) Upsert(journal *mcsc.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if journal.ID == "" {
		s.nextID++
		journal.ID = fmt.Sprintf("draft-%d", s.nextID)
	}

	if s.db == nil {
		s.db = make(map[string]*mcsc.Journal)
	}
	s.db[journal.ID] = journal
	return nil
}

func (s *DraftStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.db, id)
	return nil
}
