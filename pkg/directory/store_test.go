package directory

import (
	"testing"

	"github.com/seniorbeto/p2pshare/pkg/wire"
)

func TestRegisterUnregister(t *testing.T) {
	s := New()

	if got := s.Register("alice"); got != RegisterOK {
		t.Fatalf("Register: got %v, want RegisterOK", got)
	}
	if got := s.Register("alice"); got != RegisterUserExists {
		t.Fatalf("Register duplicate: got %v, want RegisterUserExists", got)
	}
	if got := s.Unregister("bob"); got != UnregisterNoSuchUser {
		t.Fatalf("Unregister unknown: got %v, want UnregisterNoSuchUser", got)
	}
	if got := s.Unregister("alice"); got != UnregisterOK {
		t.Fatalf("Unregister: got %v, want UnregisterOK", got)
	}
	if got := s.Connect("alice", "127.0.0.1", "9000"); got != ConnectNoSuchUser {
		t.Fatalf("Connect after unregister: got %v, want ConnectNoSuchUser", got)
	}
}

func TestConnectDisconnectLifecycle(t *testing.T) {
	s := New()
	s.Register("alice")

	if got := s.Disconnect("alice"); got != DisconnectNotActive {
		t.Fatalf("Disconnect before connect: got %v, want DisconnectNotActive", got)
	}
	if got := s.Connect("alice", "127.0.0.1", "9000"); got != ConnectOK {
		t.Fatalf("Connect: got %v, want ConnectOK", got)
	}
	if got := s.Connect("alice", "127.0.0.1", "9000"); got != ConnectAlready {
		t.Fatalf("Connect twice: got %v, want ConnectAlready", got)
	}
	if got := s.Disconnect("alice"); got != DisconnectOK {
		t.Fatalf("Disconnect: got %v, want DisconnectOK", got)
	}
	if got := s.Disconnect("alice"); got != DisconnectNotActive {
		t.Fatalf("Disconnect twice: got %v, want DisconnectNotActive", got)
	}
}

func TestPublishRequiresActiveSession(t *testing.T) {
	s := New()
	s.Register("alice")

	if got := s.Publish("alice", "/movies/a.mp4", "a movie"); got != PublishNotActive {
		t.Fatalf("Publish while disconnected: got %v, want PublishNotActive", got)
	}

	s.Connect("alice", "127.0.0.1", "9000")

	if got := s.Publish("alice", "/movies/a.mp4", "a movie"); got != PublishOK {
		t.Fatalf("Publish: got %v, want PublishOK", got)
	}
	if got := s.Publish("alice", "/movies/a.mp4", "a movie"); got != PublishDuplicate {
		t.Fatalf("Publish duplicate: got %v, want PublishDuplicate", got)
	}
	if got := s.Publish("ghost", "/x", "x"); got != PublishNoSuchUser {
		t.Fatalf("Publish unknown user: got %v, want PublishNoSuchUser", got)
	}
}

func TestPublishedContentSurvivesDisconnect(t *testing.T) {
	s := New()
	s.Register("alice")
	s.Register("bob")
	s.Connect("alice", "127.0.0.1", "9000")
	s.Connect("bob", "127.0.0.1", "9001")
	s.Publish("alice", "/movies/a.mp4", "a movie")

	s.Disconnect("alice")

	status, paths := s.ListContent("bob", "alice")
	if status != ListContentOK {
		t.Fatalf("ListContent: got status %v, want ListContentOK", status)
	}
	if len(paths) != 1 || paths[0] != "/movies/a.mp4" {
		t.Fatalf("ListContent: got %v, want [/movies/a.mp4]", paths)
	}

	status, seeders := s.Seeders("/movies/a.mp4")
	if status != SeedersNone {
		t.Fatalf("Seeders after owner disconnect: got status %v, want SeedersNone", status)
	}
	if len(seeders) != 0 {
		t.Fatalf("Seeders after owner disconnect: got %v, want none", seeders)
	}
}

func TestDeleteRequiresPublishedEntry(t *testing.T) {
	s := New()
	s.Register("alice")
	s.Connect("alice", "127.0.0.1", "9000")

	if got := s.Delete("alice", "/missing"); got != DeleteNoSuchEntry {
		t.Fatalf("Delete missing entry: got %v, want DeleteNoSuchEntry", got)
	}

	s.Publish("alice", "/movies/a.mp4", "a movie")
	if got := s.Delete("alice", "/movies/a.mp4"); got != DeleteOK {
		t.Fatalf("Delete: got %v, want DeleteOK", got)
	}

	status, paths := s.ListContent("alice", "alice")
	if status != ListContentOK || len(paths) != 0 {
		t.Fatalf("ListContent after delete: got %v, %v", status, paths)
	}
}

func TestListUsersOnlyIncludesConnected(t *testing.T) {
	s := New()
	s.Register("alice")
	s.Register("bob")
	s.Connect("alice", "127.0.0.1", "9000")

	status, users := s.ListUsers("alice")
	if status != ListUsersOK {
		t.Fatalf("ListUsers: got status %v, want ListUsersOK", status)
	}
	if len(users) != 1 || users[0].Name != "alice" {
		t.Fatalf("ListUsers: got %v, want only alice", users)
	}

	if status, _ := s.ListUsers("ghost"); status != ListUsersNoSuchUser {
		t.Fatalf("ListUsers unknown caller: got %v, want ListUsersNoSuchUser", status)
	}
	if status, _ := s.ListUsers("bob"); status != ListUsersNotActive {
		t.Fatalf("ListUsers inactive caller: got %v, want ListUsersNotActive", status)
	}
}

func TestSeedersAggregatesAllCurrentPublishers(t *testing.T) {
	s := New()
	s.Register("alice")
	s.Register("bob")
	s.Connect("alice", "127.0.0.1", "9000")
	s.Connect("bob", "127.0.0.1", "9001")
	s.Publish("alice", "/shared/a.iso", "distro")
	s.Publish("bob", "/shared/a.iso", "distro mirror")

	status, seeders := s.Seeders("/shared/a.iso")
	if status != SeedersOK {
		t.Fatalf("Seeders: got status %v, want SeedersOK", status)
	}
	if len(seeders) != 2 {
		t.Fatalf("Seeders: got %d entries, want 2", len(seeders))
	}
}

func TestConcurrentConnectSameUserYieldsExactlyOneWinner(t *testing.T) {
	s := New()
	s.Register("alice")

	const attempts = 32
	results := make(chan wire.Status, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			results <- s.Connect("alice", "127.0.0.1", "9000")
		}()
	}

	oks, already := 0, 0
	for i := 0; i < attempts; i++ {
		switch <-results {
		case ConnectOK:
			oks++
		case ConnectAlready:
			already++
		default:
			t.Fatalf("unexpected status from concurrent Connect")
		}
	}
	if oks != 1 || already != attempts-1 {
		t.Fatalf("concurrent Connect: got %d OK and %d ALREADY, want 1 and %d", oks, already, attempts-1)
	}
}

func TestEventsEmittedOnMutation(t *testing.T) {
	s := New()
	var got []Event
	s.SetPublisher(PublisherFunc(func(e Event) {
		got = append(got, e)
	}))

	s.Register("alice")
	s.Connect("alice", "127.0.0.1", "9000")
	s.Publish("alice", "/a", "a")
	s.Delete("alice", "/a")
	s.Disconnect("alice")
	s.Unregister("alice")

	want := []EventType{
		EventUserConnected,
		EventFilePublished,
		EventFileDeleted,
		EventUserDisconnected,
		EventUserUnregistered,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(got), len(want), got)
	}
	for i, e := range got {
		if e.Type != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, e.Type, want[i])
		}
	}
}
