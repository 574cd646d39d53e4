package queue

import "sync"

// Service is the in-memory play queue. Entries are playable URIs in play
// order; the current index is -1 until playback selects an entry.
type Service struct {
	mu           sync.Mutex
	entries      []string
	currentIndex int
}

func NewService() *Service {
	return &Service{currentIndex: -1}
}

// Add appends a URI to the end of the queue and returns the new total.
func (s *Service) Add(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, uri)
	return len(s.entries)
}

func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.currentIndex = -1
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Current returns the entry at the current index, if one is selected.
func (s *Service) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex < 0 || s.currentIndex >= len(s.entries) {
		return "", false
	}

	return s.entries[s.currentIndex], true
}

// First selects the first entry. It reports false on an empty queue.
func (s *Service) First() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return "", false
	}

	s.currentIndex = 0
	return s.entries[0], true
}

// Next advances the current index. The index does not move past the last
// entry; callers decide what end-of-queue means.
func (s *Service) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex+1 >= len(s.entries) {
		return "", false
	}

	s.currentIndex++
	return s.entries[s.currentIndex], true
}

// Previous moves the current index back one entry.
func (s *Service) Previous() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex-1 < 0 || len(s.entries) == 0 {
		return "", false
	}

	s.currentIndex--
	return s.entries[s.currentIndex], true
}
