// Package directory implements the central authority of the file-sharing
// network: the in-memory table of registered users, their connected
// session, and the files each connected user has published, plus the
// request dispatcher that serves the wire protocol over TCP.
//
// All access to the table is serialized by a single exclusive mutex.
// Every exported Store method is a short, self-contained critical
// section with no network I/O inside it: callers (the dispatcher) read
// a request fully into local variables first, call into the Store, and
// only then write the response.
package directory

import (
	"sync"

	"github.com/seniorbeto/p2pshare/pkg/wire"
)

// Seeder describes one connected peer holding a copy of a published file.
type Seeder struct {
	IP   string
	Port string
	Path string
}

// UserInfo is the public view of a connected user, as returned by
// ListUsers.
type UserInfo struct {
	Name string
	IP   string
	Port string
}

type entry struct {
	connected bool
	peerIP    string
	peerPort  string
	published map[string]string // path -> description
	pubOrder  []string
}

func newEntry() *entry {
	return &entry{published: make(map[string]string)}
}

// Store is the directory's single authoritative table. The zero value is
// not usable; construct with New.
type Store struct {
	mu        sync.Mutex
	users     map[string]*entry
	order     []string
	publisher Publisher
}

// New returns an empty Store.
func New() *Store {
	return &Store{users: make(map[string]*entry)}
}

// SetPublisher wires an optional announce sink. It must be called before
// the store is used concurrently; there is no synchronization between
// SetPublisher and the mutation methods.
func (s *Store) SetPublisher(p Publisher) { s.publisher = p }

func (s *Store) emit(e Event) {
	if s.publisher != nil {
		s.publisher.Publish(e)
	}
}

// Register creates an empty, disconnected user record.
func (s *Store) Register(name string) wire.Status {
	s.mu.Lock()
	if _, exists := s.users[name]; exists {
		s.mu.Unlock()
		return RegisterUserExists
	}
	s.users[name] = newEntry()
	s.order = append(s.order, name)
	s.mu.Unlock()
	return RegisterOK
}

// Unregister removes a user entirely: its session and all published
// entries go with it.
func (s *Store) Unregister(name string) wire.Status {
	s.mu.Lock()
	if _, exists := s.users[name]; !exists {
		s.mu.Unlock()
		return UnregisterNoSuchUser
	}
	delete(s.users, name)
	s.order = removeName(s.order, name)
	s.mu.Unlock()
	s.emit(Event{Type: EventUserUnregistered, User: name})
	return UnregisterOK
}

// Connect opens a session for name, recording the peer address at which
// it will accept inbound peer connections.
func (s *Store) Connect(name, peerIP, peerPort string) wire.Status {
	s.mu.Lock()
	u, exists := s.users[name]
	if !exists {
		s.mu.Unlock()
		return ConnectNoSuchUser
	}
	if u.connected {
		s.mu.Unlock()
		return ConnectAlready
	}
	u.connected = true
	u.peerIP = peerIP
	u.peerPort = peerPort
	s.mu.Unlock()
	s.emit(Event{Type: EventUserConnected, User: name})
	return ConnectOK
}

// Disconnect ends the session for name. Published entries are kept: they
// become invisible to discovery only because the owner is no longer
// connected (see the "published content across disconnect" design note).
func (s *Store) Disconnect(name string) wire.Status {
	s.mu.Lock()
	u, exists := s.users[name]
	if !exists {
		s.mu.Unlock()
		return DisconnectNoSuchUser
	}
	if !u.connected {
		s.mu.Unlock()
		return DisconnectNotActive
	}
	u.connected = false
	u.peerIP = ""
	u.peerPort = ""
	s.mu.Unlock()
	s.emit(Event{Type: EventUserDisconnected, User: name})
	return DisconnectOK
}

// Publish records that name is sharing path, described by description.
func (s *Store) Publish(name, path, description string) wire.Status {
	s.mu.Lock()
	u, exists := s.users[name]
	if !exists {
		s.mu.Unlock()
		return PublishNoSuchUser
	}
	if !u.connected {
		s.mu.Unlock()
		return PublishNotActive
	}
	if _, already := u.published[path]; already {
		s.mu.Unlock()
		return PublishDuplicate
	}
	u.published[path] = description
	u.pubOrder = append(u.pubOrder, path)
	s.mu.Unlock()
	s.emit(Event{Type: EventFilePublished, User: name, Path: path})
	return PublishOK
}

// Delete removes a previously published entry.
func (s *Store) Delete(name, path string) wire.Status {
	s.mu.Lock()
	u, exists := s.users[name]
	if !exists {
		s.mu.Unlock()
		return DeleteNoSuchUser
	}
	if !u.connected {
		s.mu.Unlock()
		return DeleteNotActive
	}
	if _, published := u.published[path]; !published {
		s.mu.Unlock()
		return DeleteNoSuchEntry
	}
	delete(u.published, path)
	u.pubOrder = removeName(u.pubOrder, path)
	s.mu.Unlock()
	s.emit(Event{Type: EventFileDeleted, User: name, Path: path})
	return DeleteOK
}

// ListUsers returns every currently connected user, including caller.
func (s *Store) ListUsers(caller string) (wire.Status, []UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.users[caller]
	if !exists {
		return ListUsersNoSuchUser, nil
	}
	if !c.connected {
		return ListUsersNotActive, nil
	}

	var out []UserInfo
	for _, name := range s.order {
		u := s.users[name]
		if u.connected {
			out = append(out, UserInfo{Name: name, IP: u.peerIP, Port: u.peerPort})
		}
	}
	return ListUsersOK, out
}

// ListContent returns every path published by target, regardless of
// whether target is currently connected.
func (s *Store) ListContent(caller, target string) (wire.Status, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.users[caller]
	if !exists {
		return ListContentNoSuchUser, nil
	}
	if !c.connected {
		return ListContentNotActive, nil
	}
	t, exists := s.users[target]
	if !exists {
		return ListContentNoSuchTarget, nil
	}

	paths := make([]string, len(t.pubOrder))
	copy(paths, t.pubOrder)
	return ListContentOK, paths
}

// Seeders returns every connected user currently publishing path.
func (s *Store) Seeders(path string) (wire.Status, []Seeder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Seeder
	for _, name := range s.order {
		u := s.users[name]
		if !u.connected {
			continue
		}
		if _, ok := u.published[path]; ok {
			out = append(out, Seeder{IP: u.peerIP, Port: u.peerPort, Path: path})
		}
	}
	if len(out) == 0 {
		return SeedersNone, nil
	}
	return SeedersOK, out
}

func removeName(names []string, target string) []string {
	for i, n := range names {
		if n == target {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
