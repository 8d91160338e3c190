package cache

import (
	"time"

	"github.com/flowly-io/flowly/model"
	c "github.com/patrickmn/go-cache"
)

// ExecutionCache holds terminal execution states for a short window so
// observers polling a finished run are served without the archive.
type ExecutionCache struct {
	cache *c.Cache
}

func NewExecutionCache(ttl time.Duration) *ExecutionCache {
	return &ExecutionCache{
		cache: c.New(ttl, 10*time.Minute),
	}
}

func (ec *ExecutionCache) Save(state model.ExecutionState) {
	ec.cache.Set(state.Id, state, c.DefaultExpiration)
}

func (ec *ExecutionCache) Get(id string) (*model.ExecutionState, bool) {
	cached, found := ec.cache.Get(id)
	if !found {
		return nil, false
	}
	state := cached.(model.ExecutionState)
	return &state, true
}
