package client

import (
	"io"
	"net"
	"os"

	"github.com/seniorbeto/p2pshare/pkg/peerserve"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

// GetFile fetches the whole file at remotePath from a single peer at
// addr, writing it to localPath.
func GetFile(addr, remotePath, localPath string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	wire.WriteCString(conn, string(peerserve.VerbGetFile))
	wire.WriteCString(conn, remotePath)

	status := make([]byte, 1)
	if _, err := io.ReadFull(conn, status); err != nil {
		return err
	}
	switch status[0] {
	case peerserve.StatusOK:
	case peerserve.StatusNotFound:
		return os.ErrNotExist
	default:
		return io.ErrUnexpectedEOF
	}

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, conn)
	return err
}
