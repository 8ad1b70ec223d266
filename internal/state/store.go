// Package state holds the console's view of backend data. The store is
// the single place UI code reads from; mutations trigger the draw
// callback so the event loop re-renders.
package state

import (
	"sort"
	"sync"

	"tgconsole/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	session    domain.Session
	credential domain.Credential // masked echo, never the stored secret
	groups     []domain.GroupTarget
	messages   []domain.MessageTemplate
	blacklist  []domain.BlacklistEntry
	autoConfig domain.AutomationConfig
	autoStatus domain.AutomationStatus
	drawFunc   func()
}

func New(drawFunc func()) *Store {
	return &Store{drawFunc: drawFunc}
}

func (s *Store) SetDrawFunc(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawFunc = f
}

func (s *Store) draw() {
	if s.drawFunc != nil {
		s.drawFunc()
	}
}

func (s *Store) SetSession(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.draw()
}

func (s *Store) GetSession() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// ClearSession resets everything the shell hydrated. Used on logout.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	s.credential = domain.Credential{}
	s.groups = nil
	s.messages = nil
	s.blacklist = nil
	s.autoConfig = domain.AutomationConfig{}
	s.autoStatus = domain.AutomationStatus{}
	s.draw()
}

func (s *Store) SetCredential(c domain.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = c
	s.draw()
}

func (s *Store) GetCredential() domain.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *Store) SetGroups(groups []domain.GroupTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = groups
	s.sortGroups()
	s.draw()
}

func (s *Store) GetGroups() []domain.GroupTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GroupTarget, len(s.groups))
	copy(out, s.groups)
	return out
}

func (s *Store) UpsertGroup(g domain.GroupTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.groups {
		if existing.ID == g.ID {
			s.groups[i] = g
			s.draw()
			return
		}
	}
	s.groups = append(s.groups, g)
	s.sortGroups()
	s.draw()
}

func (s *Store) RemoveGroup(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.groups {
		if g.ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			break
		}
	}
	s.draw()
}

func (s *Store) sortGroups() {
	sort.SliceStable(s.groups, func(i, j int) bool {
		return s.groups[i].CreatedAt.After(s.groups[j].CreatedAt)
	})
}

func (s *Store) SetMessages(msgs []domain.MessageTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = msgs
	s.draw()
}

func (s *Store) GetMessages() []domain.MessageTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MessageTemplate, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) UpsertMessage(m domain.MessageTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.messages {
		if existing.ID == m.ID {
			s.messages[i] = m
			s.draw()
			return
		}
	}
	s.messages = append(s.messages, m)
	s.draw()
}

func (s *Store) RemoveMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.draw()
}

func (s *Store) SetBlacklist(entries []domain.BlacklistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist = entries
	s.draw()
}

func (s *Store) GetBlacklist() []domain.BlacklistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BlacklistEntry, len(s.blacklist))
	copy(out, s.blacklist)
	return out
}

func (s *Store) SetAutomationConfig(cfg domain.AutomationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoConfig = cfg
	s.draw()
}

func (s *Store) GetAutomationConfig() domain.AutomationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoConfig
}

func (s *Store) SetAutomationStatus(st domain.AutomationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoStatus = st
	s.draw()
}

func (s *Store) GetAutomationStatus() domain.AutomationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoStatus
}
