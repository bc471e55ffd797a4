package directory

import "github.com/seniorbeto/p2pshare/pkg/wire"

// Status codes are verb-local: the same numeric value means different
// things for different verbs. Each verb gets its own named constants so
// call sites never have to remember which "1" they mean.
const (
	RegisterOK         wire.Status = 0
	RegisterUserExists wire.Status = 1
	RegisterInternal   wire.Status = 2
)

const (
	UnregisterOK           wire.Status = 0
	UnregisterNoSuchUser   wire.Status = 1
	UnregisterInternal     wire.Status = 2
)

const (
	ConnectOK         wire.Status = 0
	ConnectNoSuchUser wire.Status = 1
	ConnectAlready    wire.Status = 2
	ConnectInternal   wire.Status = 3
)

const (
	DisconnectOK         wire.Status = 0
	DisconnectNoSuchUser wire.Status = 1
	DisconnectNotActive  wire.Status = 2
	DisconnectInternal   wire.Status = 3
)

const (
	PublishOK         wire.Status = 0
	PublishNoSuchUser wire.Status = 1
	PublishNotActive  wire.Status = 2
	PublishDuplicate  wire.Status = 3
	PublishInternal   wire.Status = 4
)

const (
	DeleteOK          wire.Status = 0
	DeleteNoSuchUser  wire.Status = 1
	DeleteNotActive   wire.Status = 2
	DeleteNoSuchEntry wire.Status = 3
	DeleteInternal    wire.Status = 4
)

const (
	ListUsersOK         wire.Status = 0
	ListUsersNoSuchUser wire.Status = 1
	ListUsersNotActive  wire.Status = 2
	ListUsersInternal   wire.Status = 3
)

const (
	ListContentOK           wire.Status = 0
	ListContentNoSuchUser   wire.Status = 1
	ListContentNotActive    wire.Status = 2
	ListContentNoSuchTarget wire.Status = 3
	ListContentInternal     wire.Status = 4
)

const (
	SeedersOK       wire.Status = 0
	SeedersNone     wire.Status = 1
	SeedersInternal wire.Status = 2
)
