package cachefs_test

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecodebarbarian/barbarian/cachefs"
)

var site = fstest.MapFS{
	"index.html":           {Data: []byte("home")},
	"tag/nodejs.html":      {Data: []byte("node")},
	"tag/mongodb.html":     {Data: []byte("mongo")},
	"2013/04/29/a.html":    {Data: []byte("a")},
	"page/1.html":          {Data: []byte("page one")},
	"recommendations.html": {Data: []byte("read")},
}

func TestReadFile(t *testing.T) {
	fsys := cachefs.New(site, cachefs.Config{Name: "test-read", Size: 1 << 20, Expiry: time.Minute})

	b, err := fs.ReadFile(fsys, "tag/nodejs.html")
	require.NoError(t, err)
	assert.Equal(t, "node", string(b))

	fi, err := fs.Stat(fsys, "page/1.html")
	require.NoError(t, err)
	assert.Equal(t, int64(len("page one")), fi.Size())

	_, err = fs.ReadFile(fsys, "missing.html")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadDir(t *testing.T) {
	fsys := cachefs.New(site, cachefs.Config{Name: "test-readdir", Size: 1 << 20})

	dirs, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	rootDirs, err := fs.ReadDir(site, ".")
	require.NoError(t, err)

	require.Len(t, dirs, len(rootDirs))
	for i := range dirs {
		assert.Equal(t, rootDirs[i].Name(), dirs[i].Name(), "entry %d", i)
		assert.Equal(t, rootDirs[i].IsDir(), dirs[i].IsDir(), "entry %d", i)
	}
}

func TestReadDirLoop(t *testing.T) {
	fsys := cachefs.New(site, cachefs.Config{Name: "test-readdir-loop", Size: 1 << 20})

	f, err := fsys.Open(".")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, f.Close())
	}()

	rdf, ok := f.(fs.ReadDirFile)
	require.True(t, ok, "root is not a ReadDirFile")

	var total int
	for {
		dirs, err := rdf.ReadDir(2)
		if errors.Is(err, io.EOF) {
			assert.Empty(t, dirs, "entries returned at EOF")
			break
		}
		require.NoError(t, err)
		require.NotEmpty(t, dirs, "empty result before EOF")
		assert.LessOrEqual(t, len(dirs), 2)
		total += len(dirs)
	}
	rootDirs, err := fs.ReadDir(site, ".")
	require.NoError(t, err)
	assert.Equal(t, len(rootDirs), total)
}
