package session

import "sync"

// Session is the in-memory authenticated session. Subject and Role are
// always derived from Token by DecodeToken; they are never set independently.
// Nothing is persisted: a restart means a fresh login.
type Session struct {
	Token   string
	Subject string
	Role    Role
}

// Manager is the single owner of the current session. Collaborators
// (refresh cycles, downloads) read a snapshot per operation; only the owner
// replaces or clears it. The epoch counter advances on every replace/clear
// so that work started under an old session can detect that the session
// changed underneath it and drop its results instead of committing them.
type Manager struct {
	mu      sync.RWMutex
	current *Session
	epoch   uint64
}

func NewManager() *Manager {
	return &Manager{}
}

// Establish decodes the token and installs it as the current session,
// returning a snapshot of it.
func (m *Manager) Establish(token string) Session {
	ident := DecodeToken(token)
	s := Session{Token: token, Subject: ident.Subject, Role: ident.Role}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &s
	m.epoch++
	return s
}

// Clear drops the current session (logout or expiry). Safe to call when no
// session is held.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current = nil
		m.epoch++
	}
}

// Snapshot returns a copy of the current session, or ok=false when logged
// out. The copy stays valid even if the owner clears the session afterwards.
func (m *Manager) Snapshot() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Epoch returns the current session generation. Compare with StillCurrent to
// guard commits of work that was started earlier.
func (m *Manager) Epoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

// StillCurrent reports whether no replace/clear happened since epoch was
// observed.
func (m *Manager) StillCurrent(epoch uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch == epoch
}
