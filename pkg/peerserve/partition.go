// Package peerserve implements the peer-side serving endpoint: the
// listener every connected client runs so other peers can pull whole
// files (GET_FILE) or file fragments (GET_MULTIFILE) directly from it.
package peerserve

// Status codes mirror the byte the original peer endpoint sends as its
// single-byte confirmation before streaming a response body.
const (
	StatusOK          byte = 0
	StatusNotFound    byte = 1
	StatusInvalidVerb byte = 2
)

// Partition computes the byte range a given seeder is responsible for
// when totalSeeders peers are splitting a file of fileSize bytes evenly.
// The last seeder (seederID == totalSeeders-1) absorbs whatever remains
// after integer division, so every byte in [0, fileSize) is covered by
// exactly one seeder and no byte is covered twice.
func Partition(fileSize int64, seederID, totalSeeders int) (offset, length int64) {
	partSize := fileSize / int64(totalSeeders)
	offset = int64(seederID) * partSize
	if seederID == totalSeeders-1 {
		length = fileSize - offset
		return offset, length
	}
	return offset, partSize
}
