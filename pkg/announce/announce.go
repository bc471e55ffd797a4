// Package announce provides best-effort catalog-change notifications on
// top of a reliable multicast group: when the directory registers a
// connect, disconnect, publish or delete, every subscribed client learns
// about it without polling. This sits entirely outside the core wire
// protocol described by the directory and peer serving packages — a
// deployment that never configures an Announcer behaves exactly as if
// announce did not exist.
package announce

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jabolina/relt/pkg/relt"
	"github.com/prometheus/common/log"
	"github.com/seniorbeto/p2pshare/pkg/directory"
)

// Group is the reliable multicast group every Announcer in a deployment
// must share to see each other's events.
const Group relt.GroupAddress = "p2pshare-catalog-announce"

// consumeTimeout bounds how long a received event waits for room on the
// local delivery channel before being dropped, matching the transport's
// "never block the multicast layer for a slow local consumer" discipline.
const consumeTimeout = 250 * time.Millisecond

// Announcer both publishes directory.Events to the group and delivers
// events published by other members. A directory wires Publish in as a
// directory.Publisher; a client reads Listen to react to changes made
// by others.
type Announcer struct {
	name     string
	relt     *relt.Relt
	consumer chan directory.Event
	ctx      context.Context
	cancel   context.CancelFunc
}

// New joins the catalog announce group under the given participant name.
// name only needs to be unique within the group; directoryd and every
// connected client can each pick their own.
func New(name string) (*Announcer, error) {
	conf := relt.DefaultReltConfiguration()
	conf.Name = name
	conf.Exchange = Group

	r, err := relt.NewRelt(*conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Announcer{
		name:     name,
		relt:     r,
		consumer: make(chan directory.Event, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
	go a.poll()
	return a, nil
}

// Publish implements directory.Publisher: it broadcasts e to the group.
// Errors are logged and swallowed, per announce's best-effort contract —
// a directory must never fail a client request because a notification
// could not be delivered.
func (a *Announcer) Publish(e directory.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Errorf("announce: failed marshalling event %#v: %v", e, err)
		return
	}
	send := relt.Send{Address: Group, Data: data}
	if err := a.relt.Broadcast(a.ctx, send); err != nil {
		log.Warnf("announce: failed broadcasting event %#v: %v", e, err)
	}
}

// Listen returns the channel events from other group members arrive on.
// Events this Announcer itself published may or may not be echoed back,
// depending on the underlying group's delivery semantics; callers should
// not rely on seeing their own publications here.
func (a *Announcer) Listen() <-chan directory.Event {
	return a.consumer
}

// Close leaves the group and releases the underlying transport.
func (a *Announcer) Close() error {
	a.cancel()
	return a.relt.Close()
}

func (a *Announcer) poll() {
	listener, err := a.relt.Consume()
	if err != nil {
		log.Errorf("announce: failed starting consumer for %s: %v", a.name, err)
		return
	}
	for {
		select {
		case <-a.ctx.Done():
			return
		case recv, ok := <-listener:
			if !ok {
				return
			}
			a.consume(recv)
		}
	}
}

func (a *Announcer) consume(recv relt.Recv) {
	if recv.Error != nil {
		log.Errorf("announce: %s received faulty message: %v", a.name, recv.Error)
		return
	}
	if recv.Data == nil {
		return
	}

	var e directory.Event
	if err := json.Unmarshal(recv.Data, &e); err != nil {
		log.Errorf("announce: %s failed unmarshalling event: %v", a.name, err)
		return
	}

	timeout, cancel := context.WithTimeout(a.ctx, consumeTimeout)
	defer cancel()
	select {
	case <-timeout.Done():
		log.Warnf("announce: %s dropped event %#v, consumer too slow", a.name, e)
	case a.consumer <- e:
	}
}
