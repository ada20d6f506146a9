package gmailspace

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Entry is a username together with its index.
type Entry struct {
	Index    *big.Int
	Username string
}

// Page decodes up to n consecutive usernames starting at index start.
//
// The page is clipped at the end of the index space, so it may hold fewer
// than n entries. Entries are returned in index order. Decoding is spread
// over at most workers goroutines; workers <= 0 means GOMAXPROCS.
//
// It returns an error wrapping [ErrOutOfRange] if start is not a valid index,
// or ctx's error if ctx is done before the page is complete.
func Page(ctx context.Context, start *big.Int, n, workers int) ([]Entry, error) {
	if _, err := LengthOf(start); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Entry{}, nil
	}

	remaining := new(big.Int).Sub(table.cumulative[MaxLength+1], start)
	if remaining.IsInt64() && remaining.Int64() < int64(n) {
		n = int(remaining.Int64())
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := make([]Entry, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			idx := new(big.Int).Add(start, big.NewInt(int64(i)))
			u, err := Decode(idx)
			if err != nil {
				return err
			}
			entries[i] = Entry{Index: idx, Username: u}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Random returns the username at an index drawn uniformly from [0, Total())
// using the randomness in r. If r is nil, crypto/rand.Reader is used.
func Random(r io.Reader) (Entry, error) {
	if r == nil {
		r = rand.Reader
	}
	idx, err := rand.Int(r, table.cumulative[MaxLength+1])
	if err != nil {
		return Entry{}, fmt.Errorf("gmailspace: drawing random index: %w", err)
	}
	u, err := Decode(idx)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Index: idx, Username: u}, nil
}
