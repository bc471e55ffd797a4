package directory

import (
	"bufio"
	"net"
	"strconv"

	"github.com/seniorbeto/p2pshare/pkg/logging"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

// Verb identifies one of the nine directory requests.
type Verb string

const (
	VerbRegister     Verb = "REGISTER"
	VerbUnregister   Verb = "UNREGISTER"
	VerbConnect      Verb = "CONNECT"
	VerbDisconnect   Verb = "DISCONNECT"
	VerbPublish      Verb = "PUBLISH"
	VerbDelete       Verb = "DELETE"
	VerbListUsers    Verb = "LIST_USERS"
	VerbListContent  Verb = "LIST_CONTENT"
	VerbGetMultifile Verb = "GET_MULTIFILE"
)

// Dispatcher reads one request off a connection, applies it to a Store,
// and writes the response. A Dispatcher is stateless and safe to reuse
// across connections; all mutable state lives in the Store it wraps.
type Dispatcher struct {
	store *Store
	log   logging.Logger
}

// NewDispatcher builds a Dispatcher over store, logging at log.
func NewDispatcher(store *Store, log logging.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// Serve handles exactly one request on conn and then returns. The
// directory protocol is one request/response per TCP connection: the
// caller is responsible for closing conn afterwards.
func (d *Dispatcher) Serve(conn net.Conn) {
	r := bufio.NewReader(conn)

	verb, err := wire.ReadCString(r)
	if err != nil {
		d.log.Debugf("dispatcher: failed reading verb from %s: %v", conn.RemoteAddr(), err)
		return
	}

	// Every request carries a time-stamp field immediately after the
	// verb; the directory never interprets it beyond reading it off the
	// wire, per the timestamp service being an external concern.
	ts, err := wire.ReadCString(r)
	if err != nil {
		d.log.Debugf("dispatcher: failed reading ts from %s: %v", conn.RemoteAddr(), err)
		return
	}

	log := d.log.WithField("verb", verb).WithField("remote", conn.RemoteAddr().String()).WithField("ts", ts)

	switch Verb(verb) {
	case VerbRegister:
		d.handleRegister(conn, r, log)
	case VerbUnregister:
		d.handleUnregister(conn, r, log)
	case VerbConnect:
		d.handleConnect(conn, r, log)
	case VerbDisconnect:
		d.handleDisconnect(conn, r, log)
	case VerbPublish:
		d.handlePublish(conn, r, log)
	case VerbDelete:
		d.handleDelete(conn, r, log)
	case VerbListUsers:
		d.handleListUsers(conn, r, log)
	case VerbListContent:
		d.handleListContent(conn, r, log)
	case VerbGetMultifile:
		d.handleGetMultifile(conn, r, log)
	default:
		log.Warnf("dispatcher: unknown verb %q", verb)
	}
}

func (d *Dispatcher) handleRegister(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed REGISTER: %v", err)
		return
	}
	status := d.store.Register(name)
	log.Debugf("REGISTER %s -> %v", name, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handleUnregister(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed UNREGISTER: %v", err)
		return
	}
	status := d.store.Unregister(name)
	log.Debugf("UNREGISTER %s -> %v", name, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handleConnect(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed CONNECT: %v", err)
		return
	}
	peerPort, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed CONNECT: %v", err)
		return
	}
	peerIP, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		log.Debugf("CONNECT: failed to split remote addr %s: %v", conn.RemoteAddr(), err)
		writeStatus(conn, ConnectInternal, log)
		return
	}
	status := d.store.Connect(name, peerIP, peerPort)
	log.Debugf("CONNECT %s %s:%s -> %v", name, peerIP, peerPort, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handleDisconnect(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed DISCONNECT: %v", err)
		return
	}
	status := d.store.Disconnect(name)
	log.Debugf("DISCONNECT %s -> %v", name, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handlePublish(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed PUBLISH: %v", err)
		return
	}
	path, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed PUBLISH: %v", err)
		return
	}
	description, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed PUBLISH: %v", err)
		return
	}
	status := d.store.Publish(name, path, description)
	log.Debugf("PUBLISH %s %s -> %v", name, path, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handleDelete(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	name, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed DELETE: %v", err)
		return
	}
	path, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed DELETE: %v", err)
		return
	}
	status := d.store.Delete(name, path)
	log.Debugf("DELETE %s %s -> %v", name, path, status)
	writeStatus(conn, status, log)
}

func (d *Dispatcher) handleListUsers(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	caller, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed LIST_USERS: %v", err)
		return
	}
	status, users := d.store.ListUsers(caller)
	log.Debugf("LIST_USERS %s -> %v (%d users)", caller, status, len(users))
	if err := wire.WriteStatus(conn, status); err != nil {
		log.Debugf("write status failed: %v", err)
		return
	}
	if status != ListUsersOK {
		return
	}
	if err := wire.WriteCString(conn, strconv.Itoa(len(users))); err != nil {
		log.Debugf("write user count failed: %v", err)
		return
	}
	for _, u := range users {
		if err := wire.WriteCString(conn, u.Name); err != nil {
			log.Debugf("write user name failed: %v", err)
			return
		}
		if err := wire.WriteCString(conn, u.IP); err != nil {
			log.Debugf("write user ip failed: %v", err)
			return
		}
		if err := wire.WriteCString(conn, u.Port); err != nil {
			log.Debugf("write user port failed: %v", err)
			return
		}
	}
}

func (d *Dispatcher) handleListContent(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	caller, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed LIST_CONTENT: %v", err)
		return
	}
	target, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed LIST_CONTENT: %v", err)
		return
	}
	status, paths := d.store.ListContent(caller, target)
	log.Debugf("LIST_CONTENT %s %s -> %v (%d entries)", caller, target, status, len(paths))
	if err := wire.WriteStatus(conn, status); err != nil {
		log.Debugf("write status failed: %v", err)
		return
	}
	if status != ListContentOK {
		return
	}
	if err := wire.WriteCString(conn, strconv.Itoa(len(paths))); err != nil {
		log.Debugf("write path count failed: %v", err)
		return
	}
	for _, p := range paths {
		if err := wire.WriteCString(conn, p); err != nil {
			log.Debugf("write path row failed: %v", err)
			return
		}
	}
}

// maxSeederCount is the largest seeder count representable by the
// verb's one-byte count field, per the spec's documented asymmetry with
// LIST_USERS/LIST_CONTENT, which encode their counts as decimal strings.
const maxSeederCount = 255

func (d *Dispatcher) handleGetMultifile(conn net.Conn, r *bufio.Reader, log logging.Logger) {
	if _, err := wire.ReadCString(r); err != nil { // user, unused: see directory-verb caller validation note
		log.Debugf("malformed GET_MULTIFILE: %v", err)
		return
	}
	path, err := wire.ReadCString(r)
	if err != nil {
		log.Debugf("malformed GET_MULTIFILE: %v", err)
		return
	}
	status, seeders := d.store.Seeders(path)
	log.Debugf("GET_MULTIFILE %s -> %v (%d seeders)", path, status, len(seeders))
	if err := wire.WriteStatus(conn, status); err != nil {
		log.Debugf("write status failed: %v", err)
		return
	}
	if status != SeedersOK {
		return
	}
	if len(seeders) > maxSeederCount {
		seeders = seeders[:maxSeederCount]
	}
	if _, err := conn.Write([]byte{byte(len(seeders))}); err != nil {
		log.Debugf("write seeder count failed: %v", err)
		return
	}
	for _, sd := range seeders {
		if err := wire.WriteCString(conn, sd.IP); err != nil {
			log.Debugf("write seeder ip failed: %v", err)
			return
		}
		if err := wire.WriteCString(conn, sd.Port); err != nil {
			log.Debugf("write seeder port failed: %v", err)
			return
		}
		if err := wire.WriteCString(conn, sd.Path); err != nil {
			log.Debugf("write seeder path failed: %v", err)
			return
		}
	}
}

func writeStatus(conn net.Conn, status wire.Status, log logging.Logger) {
	if err := wire.WriteStatus(conn, status); err != nil {
		log.Debugf("write status failed: %v", err)
	}
}
