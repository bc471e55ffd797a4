package peerserve

import (
	"math/rand"
	"testing"
)

func TestPartitionCoversWholeFileExactlyOnce(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		fileSize := int64(rnd.Intn(1 << 24))
		totalSeeders := 1 + rnd.Intn(16)

		covered := make([]bool, fileSize)
		for seederID := 0; seederID < totalSeeders; seederID++ {
			offset, length := Partition(fileSize, seederID, totalSeeders)
			if offset < 0 || length < 0 || offset+length > fileSize {
				t.Fatalf("fileSize=%d total=%d seeder=%d: out of range offset=%d length=%d",
					fileSize, totalSeeders, seederID, offset, length)
			}
			for i := offset; i < offset+length; i++ {
				if covered[i] {
					t.Fatalf("fileSize=%d total=%d: byte %d covered more than once", fileSize, totalSeeders, i)
				}
				covered[i] = true
			}
		}
		for i, c := range covered {
			if !c {
				t.Fatalf("fileSize=%d total=%d: byte %d never covered", fileSize, totalSeeders, i)
			}
		}
	}
}

func TestPartitionLastSeederAbsorbsRemainder(t *testing.T) {
	offset, length := Partition(10, 2, 3)
	if offset != 6 || length != 4 {
		t.Fatalf("got offset=%d length=%d, want offset=6 length=4", offset, length)
	}
}

func TestPartitionSingleSeederTakesWholeFile(t *testing.T) {
	offset, length := Partition(4096, 0, 1)
	if offset != 0 || length != 4096 {
		t.Fatalf("got offset=%d length=%d, want offset=0 length=4096", offset, length)
	}
}
