package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/seniorbeto/p2pshare/pkg/peerserve"
	"github.com/seniorbeto/p2pshare/pkg/wire"
)

// ErrSegmentMissing is returned by Download when a seeder task reported
// no error but left no segment behind. A seeder task that fails with an
// error is reported as that error, wrapped with the seeder's index.
// Either way the whole download aborts rather than delivering a partial
// file.
var ErrSegmentMissing = errors.New("client: one or more seeder segments missing")

// Download fetches remotePath from every seeder that holds it, each
// contributing its assigned byte range, and reassembles the pieces into
// localPath. It requires at least one seeder; seeders is the set
// returned by Stubs.GetMultifileSeeders.
func Download(seeders []SeederInfo, remotePath, localPath string) error {
	n := len(seeders)
	if n == 0 {
		return errors.New("client: no seeders to download from")
	}

	segments := make([]string, n)
	errs := make([]error, n)
	done := make(chan int, n)

	for i, seeder := range seeders {
		i, seeder := i, seeder
		go func() {
			segments[i], errs[i] = fetchSegment(seeder, remotePath, i, n)
			done <- i
		}()
	}
	for range seeders {
		<-done
	}

	defer func() {
		for _, seg := range segments {
			if seg != "" {
				os.Remove(seg)
			}
		}
	}()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("client: seeder %d failed: %w", i, err)
		}
		if segments[i] == "" {
			return ErrSegmentMissing
		}
	}

	return concatenate(segments, localPath)
}

func fetchSegment(seeder SeederInfo, remotePath string, seederID, total int) (string, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(seeder.IP, seeder.Port))
	if err != nil {
		return "", err
	}
	defer conn.Close()

	wire.WriteCString(conn, string(peerserve.VerbGetMultiFile))
	wire.WriteCString(conn, remotePath)
	wire.WriteCString(conn, strconv.Itoa(seederID))
	wire.WriteCString(conn, strconv.Itoa(total))

	status := make([]byte, 1)
	if _, err := io.ReadFull(conn, status); err != nil {
		return "", err
	}
	if status[0] != peerserve.StatusOK {
		return "", fmt.Errorf("client: seeder returned status %d", status[0])
	}

	tmp, err := os.CreateTemp("", fmt.Sprintf("p2pshare-seg-%d-*", seederID))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	w := bufio.NewWriter(tmp)
	if _, err := io.Copy(w, conn); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := w.Flush(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

func concatenate(segments []string, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, seg := range segments {
		f, err := os.Open(seg)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return w.Flush()
}
