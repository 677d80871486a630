package storefront

import "sync"

// Sidebar is the open/closed state of an overlay panel.
type Sidebar struct {
	mu   sync.Mutex
	open bool
}

func (s *Sidebar) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Sidebar) Open()  { s.set(true) }
func (s *Sidebar) Close() { s.set(false) }

func (s *Sidebar) Toggle() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
}

func (s *Sidebar) set(v bool) {
	s.mu.Lock()
	s.open = v
	s.mu.Unlock()
}
