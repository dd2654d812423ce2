package repository

import (
	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/pkg/archive"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// ArchiveRepository keeps assembled archives keyed by run ID
type ArchiveRepository interface {
	Get(runID string) (*archive.Archive, bool)
	Set(runID string, a *archive.Archive)
	Delete(runID string)
	GetOrLoad(runID string, load func() (*archive.Archive, error)) (*archive.Archive, bool, error)
}

var _ ArchiveRepository = &ArchiveCache{}

// ArchiveCache implements ArchiveRepository in memory with expiration
type ArchiveCache struct {
	cache *cache.Cache
	group singleflight.Group
}

func NewArchiveCache(cfg config.ArchiveCacheConfig) *ArchiveCache {
	return &ArchiveCache{
		cache: cache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

func (r *ArchiveCache) Get(runID string) (*archive.Archive, bool) {
	v, ok := r.cache.Get(runID)
	if !ok {
		return nil, false
	}
	a, ok := v.(*archive.Archive)
	return a, ok
}

func (r *ArchiveCache) Set(runID string, a *archive.Archive) {
	r.cache.Set(runID, a, cache.DefaultExpiration)
}

func (r *ArchiveCache) Delete(runID string) {
	r.cache.Delete(runID)
}

// GetOrLoad returns the cached archive of runID or stores the result of load.
// Concurrent misses for the same run share a single load. The bool reports whether load ran.
func (r *ArchiveCache) GetOrLoad(runID string, load func() (*archive.Archive, error)) (*archive.Archive, bool, error) {
	if a, ok := r.Get(runID); ok {
		return a, false, nil
	}

	v, err, _ := r.group.Do(runID, func() (any, error) {
		if a, ok := r.Get(runID); ok {
			return a, nil
		}
		a, err := load()
		if err != nil {
			return nil, err
		}
		r.Set(runID, a)
		return a, nil
	})
	if err != nil {
		return nil, true, err
	}
	return v.(*archive.Archive), true, nil
}
