package cache

import (
	"time"

	"github.com/flowly-io/flowly/model"
	c "github.com/patrickmn/go-cache"
)

// DefinitionCache keeps recently used workflow definitions in memory so a
// run does not hit the storage layer for every start.
type DefinitionCache struct {
	cache *c.Cache
}

func NewDefinitionCache(ttl time.Duration) *DefinitionCache {
	return &DefinitionCache{
		cache: c.New(ttl, 10*time.Minute),
	}
}

func (dc *DefinitionCache) Save(wf model.Workflow) {
	dc.cache.Set(wf.Id, wf, c.DefaultExpiration)
}

func (dc *DefinitionCache) Get(id string) (*model.Workflow, bool) {
	cached, found := dc.cache.Get(id)
	if !found {
		return nil, false
	}
	wf := cached.(model.Workflow)
	return &wf, true
}

func (dc *DefinitionCache) Delete(id string) {
	dc.cache.Delete(id)
}
