package lookup

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

var _ Cache = (*Ristretto)(nil)

// Ristretto is a Cache bounded to a number of entries.
type Ristretto struct {
	*ristretto.Cache[string, any]
}

func NewRistrettoCache(maxEntries int) (*Ristretto, error) {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: int64(maxEntries) * 10, // keys to track frequency of
		MaxCost:     int64(maxEntries),      // every entry costs 1
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("fail to create ristretto cache: %w", err)
	}
	return &Ristretto{Cache: cache}, nil
}

func (r *Ristretto) Get(key string) (any, bool) {
	return r.Cache.Get(key)
}

// Set stores value and waits for it to be applied, so a following Get sees it
// unless the admission policy rejected it.
func (r *Ristretto) Set(key string, value any) {
	r.Cache.Set(key, value, 1)
	r.Cache.Wait()
}
