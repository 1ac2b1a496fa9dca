package browse

import (
	"errors"
	"strconv"
	"time"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

const collection = "pokemon"

// ListKey identifies one fixed window of the collection.
func ListKey(offset, limit int) query.Key {
	return query.Key{collection, "list", offset, limit}
}

// InfiniteKey identifies the accumulated pages of a feed with page size limit.
func InfiniteKey(limit int) query.Key {
	return query.Key{collection, "infinite", limit}
}

// DetailKey identifies one detail record. key must already be normalized.
func DetailKey(key string) query.Key {
	return query.Key{collection, "detail", key}
}

// ListOptions apply to list pages and accumulated feeds.
var ListOptions = query.Options{
	StaleTime:     5 * time.Minute,
	IdleRetention: 10 * time.Minute,
}

// DetailOptions apply to detail records.
var DetailOptions = query.Options{
	StaleTime:     10 * time.Minute,
	IdleRetention: 15 * time.Minute,
	Retry:         retryDetail,
	RetryDelay:    time.Second,
	RetryMaxDelay: 30 * time.Second,
}

// retryDetail never retries a missing entry and otherwise allows two extra
// attempts.
func retryDetail(failures int, err error) bool {
	var vErr *pokeapi.ValidationError
	if errors.Is(err, pokeapi.ErrNotFound) || errors.As(err, &vErr) {
		return false
	}
	return failures < 2
}

// cardKey picks the lookup key for a list entry: its numeric id when the
// reference URL carries one, otherwise its name.
func cardKey(ref pokeapi.ListRef) string {
	if id, ok := ref.ID(); ok {
		return strconv.Itoa(id)
	}
	return pokeapi.NormalizeKey(ref.Name)
}
