/*
Package cachefs keeps the files of the generated site in memory while the
server runs, using groupcache through github.com/ancientlore/cachefs.

groupcache does not expire entries. Values are quantized by the expiry
duration instead, so a rebuilt site is picked up within about one expiry
period. An expiry of zero caches files until the process exits.
*/
package cachefs

import (
	"io/fs"
	"sync"
	"time"

	cfs "github.com/ancientlore/cachefs"
	"github.com/golang/groupcache"
)

// Config stores the configuration settings of the cache.
type Config struct {
	Name   string        // groupcache group name, unique per process
	Size   int64         // bytes held by the cache
	Expiry time.Duration // quantization period for entries
}

var registerPeers sync.Once

// New wraps fsys in a read-only cache. The cache has no peers: every
// process keeps its own copy.
func New(fsys fs.FS, cfg Config) fs.FS {
	registerPeers.Do(func() {
		groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })
	})
	return cfs.New(fsys, &cfs.Config{
		GroupName:   cfg.Name,
		SizeInBytes: cfg.Size,
		Duration:    cfg.Expiry,
	})
}
