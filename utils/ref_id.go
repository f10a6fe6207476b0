package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand
var refSeq uint64

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateRefID produces a unique reference for a ledger audit entry. The
// process-local sequence keeps two entries created in the same instant apart.
func GenerateRefID(userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	refSeq++

	return fmt.Sprintf("LDG-%06d%03d%d-%d", nanoPart, randPart, userID, refSeq)
}
