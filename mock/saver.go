package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/tashrifatdiu/mcsc-client/editor"
)

// Saver records assembled payloads instead of calling the API. Implements
// editor.Saver.
type Saver struct {
	mu     sync.Mutex
	db     map[string]editor.Payload
	nextID int

	// Fail makes every call error out, to exercise retry paths.
	Fail error
}

func (s *Saver) Create(ctx context.Context, p editor.Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return "", s.Fail
	}

	s.nextID++
	id := fmt.Sprintf("journal-%d", s.nextID)
	if s.db == nil {
		s.db = make(map[string]editor.Payload)
	}
	s.db[id] = p
	return id, nil
}

func (s *Saver) Update(ctx context.Context, id string, p editor.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if s.db == nil {
		s.db = make(map[string]editor.Payload)
	}
	s.db[id] = p
	return nil
}

// Get returns the last payload saved under id.
func (s *Saver) Get(id string) (editor.Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.db[id]
	return p, ok
}

// Count returns how many journals the saver holds.
func (s *Saver) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.db)
}
