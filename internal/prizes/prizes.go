// internal/prizes/prizes.go
//
// Prize pool for winning rounds.
//
// Responsibilities:
//   - Load the prize list from an environment-provided file or fall back to
//     the embedded defaults in the assets package.
//   - Supply Random() for the round engine to attach flavor to wins.
//
// Initialization behavior (Init):
//   1. If PRIZES_FILE is set, load one prize per line from that file.
//   2. Otherwise use the embedded default pool.
//
// Initialization runs once (sync.Once); Random falls back to a fixed prize
// if the pool is empty so the engine never blocks on configuration.

package prizes

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"

	"cupgame/assets"
)

var (
	initOnce sync.Once
	pool     []string
	initErr  error
)

// Init loads the prize pool exactly once. Returns an error if the resulting
// pool is empty.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("PRIZES_FILE"); path != "" {
			pool, initErr = readPrizeFile(path)
		} else {
			pool, initErr = assets.PrizeList()
		}
		if initErr == nil && len(pool) == 0 {
			initErr = errors.New("prizes: prize pool is empty")
		}
	})
	return initErr
}

// readPrizeFile loads one prize per line, skipping blanks and comments.
func readPrizeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Random returns a cryptographically random prize from the pool.
// If the pool was never loaded or is empty, falls back to "a golden watch".
func Random() string {
	_ = Init()
	if len(pool) == 0 {
		return "a golden watch"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	return pool[nBig.Int64()]
}

// Count reports the number of loaded prizes.
func Count() int {
	_ = Init()
	return len(pool)
}
