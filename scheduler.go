package dirsum

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/dirsum/dirsum/internal/cache"
	"github.com/dirsum/dirsum/internal/hasher"
	"github.com/dirsum/dirsum/internal/scan"
)

// fileItem is one unit of hashing work. rel is the first relative path
// that referenced the real path, kept for error reporting.
type fileItem struct {
	rel  string
	real string
}

// collectFiles gathers the included files of a scanned tree, one work
// item per unique real path so that multiple links to the same file
// are hashed once.
func collectFiles(d *scan.Dir) []fileItem {
	seen := make(map[string]struct{})
	var items []fileItem
	var walk func(*scan.Dir)
	walk = func(n *scan.Dir) {
		if n.Cyclic {
			return
		}
		for _, f := range n.Files {
			if _, ok := seen[f.Real]; ok {
				continue
			}
			seen[f.Real] = struct{}{}
			items = append(items, fileItem{rel: f.Rel, real: f.Real})
		}
		for _, sub := range n.Dirs {
			walk(sub)
		}
	}
	walk(d)
	return items
}

// hashFiles produces the real path → content digest map for the given
// work items, consulting the persistent cache when enabled and fanning
// the rest out over Jobs workers. The first failure cancels
// outstanding work.
func (p *plan) hashFiles(ctx context.Context, items []fileItem) (map[string]string, error) {
	digests := make(map[string]string, len(items))

	var dc *cache.Cache
	if name := p.algorithmName(); p.opts.CacheDir != "" && name != "" {
		var err error
		dc, err = cache.Open(p.opts.CacheDir, name)
		if err != nil {
			p.opts.Logger.Debug("digest cache unreadable, starting fresh", "err", err)
		}
		pending := make([]fileItem, 0, len(items))
		for _, it := range items {
			if digest, ok := dc.Lookup(it.real); ok {
				digests[it.real] = digest
			} else {
				pending = append(pending, it)
			}
		}
		p.opts.Logger.Debug("digest cache", "hits", len(items)-len(pending), "misses", len(pending))
		items = pending
	}

	if len(items) > 0 {
		workers := pool.New().
			WithMaxGoroutines(p.opts.Jobs).
			WithContext(ctx).
			WithCancelOnError()

		var mu sync.Mutex
		for _, it := range items {
			it := it
			workers.Go(func(ctx context.Context) error {
				digest, err := hasher.SumFile(ctx, p.factory, it.real, p.opts.ChunkSize)
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					return &PathNotAccessibleError{Path: it.rel, Err: err}
				}
				mu.Lock()
				digests[it.real] = digest
				mu.Unlock()
				if dc != nil {
					dc.Store(it.real, digest)
				}
				return nil
			})
		}
		if err := workers.Wait(); err != nil {
			return nil, err
		}
	}

	if dc != nil {
		if err := dc.Save(); err != nil {
			p.opts.Logger.Warn("digest cache not saved", "err", err)
		}
	}

	return digests, nil
}
