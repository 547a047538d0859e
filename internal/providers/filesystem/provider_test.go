package filesystem

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
	"github.com/nyxos/backend/internal/storage"
)

// fakeClock advances one second per reading
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestProvider(t *testing.T, opts Options) *Provider {
	t.Helper()
	store, err := storage.OpenBlob("", nil)
	require.NoError(t, err)
	if opts.Clock == nil {
		opts.Clock = newFakeClock().Now
	}
	p := New(store, opts)
	t.Cleanup(func() { p.Close() })
	require.NoError(t, p.Init(context.Background()))
	return p
}

func names(nodes []types.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

// assertLinked checks that every folder lists exactly its resolvable
// children and that each child points back at it
func assertLinked(t *testing.T, p *Provider, root string) {
	t.Helper()
	ctx := context.Background()
	nodes, err := p.subtree(ctx, root)
	require.NoError(t, err)
	for _, folder := range nodes {
		if !folder.IsFolder() {
			continue
		}
		listed, err := p.List(ctx, folder.Path)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, child := range listed {
			assert.Equal(t, folder.Path, paths.Parent(child.Path), "child %s of %s", child.Path, folder.Path)
			assert.False(t, seen[child.Path], "duplicate child %s", child.Path)
			seen[child.Path] = true
		}
		for _, c := range folder.Children {
			node, err := p.Stat(ctx, c)
			require.NoError(t, err)
			assert.NotNil(t, node, "stale child %s in %s", c, folder.Path)
		}
	}
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	root, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, paths.StandardFolders, root.Children)

	for _, dir := range paths.StandardFolders {
		node, err := p.Stat(ctx, dir)
		require.NoError(t, err)
		require.NotNil(t, node, dir)
		assert.True(t, node.IsFolder())
		assert.Equal(t, paths.Base(dir), node.Name)
	}
}

func TestInitIdempotent(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	before, err := p.Stat(ctx, "/")
	require.NoError(t, err)

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Init(ctx))

	after, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, before.Children, after.Children)
	assert.Equal(t, before.MTime, after.MTime)
}

func TestInitExtendsExistingRoot(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenBlob("", nil)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Put(ctx, types.NewFolder("/", "", []string{"/home"}, now)))
	require.NoError(t, store.Put(ctx, types.NewFolder("/home", "home", nil, now)))
	require.NoError(t, store.Put(ctx, types.NewFolder("/Users", "Users", []string{"/Users/a.txt"}, now)))
	require.NoError(t, store.Put(ctx, types.NewFile("/Users/a.txt", "a.txt", "keep", now)))

	p := New(store, Options{})
	defer p.Close()
	require.NoError(t, p.Init(ctx))

	root, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, append([]string{"/home"}, paths.StandardFolders...), root.Children)

	users, err := p.Stat(ctx, "/Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Users/a.txt"}, users.Children)
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	tests := []struct {
		path    string
		content string
	}{
		{"/Users/a.txt", "hello"},
		{"/Public/empty.txt", ""},
		{"/Drives/unicode.md", "héllo wörld ✓"},
		{"/notes", "top level"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.NoError(t, p.WriteFile(ctx, tt.path, tt.content))
			got, ok, err := p.ReadFile(ctx, tt.path)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.content, got)
		})
	}
	assertLinked(t, p, "/")
}

func TestWriteFileLinksParentOnce(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	before, err := p.Stat(ctx, "/Users")
	require.NoError(t, err)

	require.NoError(t, p.WriteFile(ctx, "/Users/a.txt", "1"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a.txt", "2"))

	after, err := p.Stat(ctx, "/Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Users/a.txt"}, after.Children)
	assert.True(t, after.MTime.After(before.MTime))

	file, err := p.Stat(ctx, "/Users/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", file.Name)
	assert.Equal(t, "2", file.Content)
}

func TestWriteFileOverwriteReplacesMetadata(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.WriteFile(ctx, "/Users/a.txt", "1"))
	require.NoError(t, p.SetTags(ctx, "/Users/a.txt", []string{"work"}))
	require.NoError(t, p.SetPreview(ctx, "/Users/a.txt", "thumb.png"))
	require.NoError(t, p.SetAssocApp(ctx, "/Users/a.txt", "editor"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a.txt", "2"))

	file, err := p.Stat(ctx, "/Users/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "2", file.Content)
	assert.Empty(t, file.Tags)
	assert.Empty(t, file.Preview)
	assert.Empty(t, file.AssocApp)
}

func TestWriteFileReplacesFolder(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/Users/docs"))
	require.NoError(t, p.WriteFile(ctx, "/Users/docs", "now a file"))

	node, err := p.Stat(ctx, "/Users/docs")
	require.NoError(t, err)
	assert.True(t, node.IsFile())

	listed, err := p.List(ctx, "/Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names(listed))
}

func TestReadFileMissingOrFolder(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	_, ok, err := p.ReadFile(ctx, "/nope.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = p.ReadFile(ctx, "/Users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissingParentIsNoOp(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.WriteFile(ctx, "/nonexistent/x.txt", "y"))
	require.NoError(t, p.Mkdir(ctx, "/nonexistent/sub"))

	for _, path := range []string{"/nonexistent/x.txt", "/nonexistent/sub", "/nonexistent"} {
		exists, err := p.Exists(ctx, path)
		require.NoError(t, err)
		assert.False(t, exists, path)
	}

	// a file is not a valid parent either
	require.NoError(t, p.WriteFile(ctx, "/Users/f", "x"))
	require.NoError(t, p.WriteFile(ctx, "/Users/f/child", "y"))
	exists, err := p.Exists(ctx, "/Users/f/child")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStrictParents(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{Parents: ParentsStrict})

	err := p.WriteFile(ctx, "/nonexistent/x.txt", "y")
	assert.True(t, errors.Is(err, ErrParentMissing))

	err = p.Mkdir(ctx, "/nonexistent/sub")
	assert.True(t, errors.Is(err, ErrParentMissing))

	err = p.SetTags(ctx, "/missing", []string{"x"})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, p.Mkdir(ctx, "/Users/docs"))
	err = p.SetAssocApp(ctx, "/Users/docs", "editor")
	assert.True(t, errors.Is(err, ErrNotFile))

	exists, err := p.Exists(ctx, "/nonexistent/x.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMkdir(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/Users/docs/"))

	node, err := p.Stat(ctx, "/Users/docs")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.True(t, node.IsFolder())
	assert.Empty(t, node.Children)

	listed, err := p.List(ctx, "/Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names(listed))
}

func TestMkdirRoot(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/"))
	root, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, paths.StandardFolders, root.Children)

	require.NoError(t, p.WriteFile(ctx, "/", "nope"))
	root, err = p.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, root.IsFolder())
}

func TestList(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{ListConcurrency: 2})

	for _, name := range []string{"c", "a", "b", "e", "d"} {
		require.NoError(t, p.WriteFile(ctx, "/Public/"+name, name))
	}

	listed, err := p.List(ctx, "/Public")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "e", "d"}, names(listed))

	empty, err := p.List(ctx, "/missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	file, err := p.List(ctx, "/Public/a")
	require.NoError(t, err)
	assert.Empty(t, file)
}

func TestListSkipsStaleChildren(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenBlob("", nil)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Put(ctx, types.NewFolder("/", "", []string{"/ghost", "/real"}, now)))
	require.NoError(t, store.Put(ctx, types.NewFile("/real", "real", "", now)))

	p := New(store, Options{})
	defer p.Close()

	listed, err := p.List(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, names(listed))
}

func TestRecursiveDelete(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/Users/a"))
	require.NoError(t, p.Mkdir(ctx, "/Users/a/b"))
	require.NoError(t, p.Mkdir(ctx, "/Users/a/b/c"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a/f1", "1"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a/b/f2", "2"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a/b/c/f3", "3"))
	require.NoError(t, p.WriteFile(ctx, "/Users/keep", "k"))

	require.NoError(t, p.Delete(ctx, "/Users/a"))

	for _, path := range []string{"/Users/a", "/Users/a/b", "/Users/a/b/c", "/Users/a/f1", "/Users/a/b/f2", "/Users/a/b/c/f3"} {
		exists, err := p.Exists(ctx, path)
		require.NoError(t, err)
		assert.False(t, exists, path)
	}

	users, err := p.Stat(ctx, "/Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Users/keep"}, users.Children)
	assertLinked(t, p, "/")
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	before, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	require.NoError(t, p.Delete(ctx, "/does/not/exist"))
	after, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeepTreeDelete(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	path := "/Drives"
	var all []string
	for i := 0; i < 500; i++ {
		path += "/d"
		require.NoError(t, p.Mkdir(ctx, path))
		all = append(all, path)
	}
	require.NoError(t, p.Delete(ctx, "/Drives/d"))

	for _, path := range []string{all[0], all[250], all[499]} {
		exists, err := p.Exists(ctx, path)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

func TestMoveFileDropsMetadata(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/a"))
	require.NoError(t, p.Mkdir(ctx, "/b"))
	require.NoError(t, p.WriteFile(ctx, "/a/f.txt", "hello"))
	require.NoError(t, p.SetTags(ctx, "/a/f.txt", []string{"important"}))
	require.NoError(t, p.SetAssocApp(ctx, "/a/f.txt", "editor"))

	require.NoError(t, p.Move(ctx, "/a/f.txt", "/b/f.txt"))

	content, ok, err := p.ReadFile(ctx, "/b/f.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", content)

	moved, err := p.Stat(ctx, "/b/f.txt")
	require.NoError(t, err)
	assert.Empty(t, moved.Tags)
	assert.Empty(t, moved.AssocApp)

	exists, err := p.Exists(ctx, "/a/f.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	a, err := p.Stat(ctx, "/a")
	require.NoError(t, err)
	assert.Empty(t, a.Children)
}

func TestMovePreservesMetadataWhenConfigured(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{PreserveMetadataOnMove: true})

	require.NoError(t, p.Mkdir(ctx, "/Users/src"))
	require.NoError(t, p.SetTags(ctx, "/Users/src", []string{"project"}))
	require.NoError(t, p.WriteFile(ctx, "/Users/src/f.txt", "hello"))
	require.NoError(t, p.SetTags(ctx, "/Users/src/f.txt", []string{"important"}))
	require.NoError(t, p.SetPreview(ctx, "/Users/src/f.txt", "thumb://f"))

	require.NoError(t, p.Move(ctx, "/Users/src", "/Public/dst"))

	folder, err := p.Stat(ctx, "/Public/dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"project"}, folder.Tags)

	file, err := p.Stat(ctx, "/Public/dst/f.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"important"}, file.Tags)
	assert.Equal(t, "thumb://f", file.Preview)
}

func TestMoveFolderRebuildsStructure(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/Users/src"))
	require.NoError(t, p.Mkdir(ctx, "/Users/src/sub"))
	require.NoError(t, p.WriteFile(ctx, "/Users/src/z.txt", "z"))
	require.NoError(t, p.WriteFile(ctx, "/Users/src/a.txt", "a"))
	require.NoError(t, p.WriteFile(ctx, "/Users/src/sub/deep.txt", "deep"))
	require.NoError(t, p.SetTags(ctx, "/Users/src", []string{"lost"}))

	require.NoError(t, p.Move(ctx, "/Users/src", "/Public/dst"))

	exists, err := p.Exists(ctx, "/Users/src")
	require.NoError(t, err)
	assert.False(t, exists)

	listed, err := p.List(ctx, "/Public/dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "z.txt", "a.txt"}, names(listed))

	deep, ok, err := p.ReadFile(ctx, "/Public/dst/sub/deep.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deep", deep)

	dst, err := p.Stat(ctx, "/Public/dst")
	require.NoError(t, err)
	assert.Empty(t, dst.Tags)

	assertLinked(t, p, "/")
}

func TestMoveEdgeCases(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/Users/a"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a/f", "x"))

	t.Run("missing source", func(t *testing.T) {
		require.NoError(t, p.Move(ctx, "/Users/none", "/Users/other"))
		exists, err := p.Exists(ctx, "/Users/other")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("same path", func(t *testing.T) {
		require.NoError(t, p.Move(ctx, "/Users/a", "/Users/a"))
		_, ok, err := p.ReadFile(ctx, "/Users/a/f")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("into itself", func(t *testing.T) {
		err := p.Move(ctx, "/Users/a", "/Users/a/inner")
		assert.True(t, errors.Is(err, ErrInvalidMove))
		_, ok, err := p.ReadFile(ctx, "/Users/a/f")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing destination parent drops source", func(t *testing.T) {
		require.NoError(t, p.Move(ctx, "/Users/a/f", "/nowhere/f"))

		srcExists, err := p.Exists(ctx, "/Users/a/f")
		require.NoError(t, err)
		assert.False(t, srcExists)

		destExists, err := p.Exists(ctx, "/nowhere/f")
		require.NoError(t, err)
		assert.False(t, destExists)

		folder, err := p.Stat(ctx, "/Users/a")
		require.NoError(t, err)
		assert.Empty(t, folder.Children)
	})
}

func TestMoveStrictMissingParentKeepsSource(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{Parents: ParentsStrict})

	require.NoError(t, p.Mkdir(ctx, "/Users/a"))
	require.NoError(t, p.WriteFile(ctx, "/Users/a/f", "x"))

	err := p.Move(ctx, "/Users/a", "/nowhere/a")
	assert.ErrorIs(t, err, ErrParentMissing)

	content, ok, err := p.ReadFile(ctx, "/Users/a/f")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", content)
}

func TestExplorerRenameFlow(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.Mkdir(ctx, "/home"))
	require.NoError(t, p.Mkdir(ctx, "/home/user"))
	require.NoError(t, p.Mkdir(ctx, "/home/user/docs"))
	require.NoError(t, p.WriteFile(ctx, "/home/user/docs/a.txt", "x"))
	require.NoError(t, p.Rename(ctx, "/home/user/docs/a.txt", "/home/user/docs/b.txt"))

	exists, err := p.Exists(ctx, "/home/user/docs/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	content, ok, err := p.ReadFile(ctx, "/home/user/docs/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", content)

	listed, err := p.List(ctx, "/home/user/docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, names(listed))
}

func TestConcurrentSiblingWrites(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, p.WriteFile(ctx, filepath.Join("/Public", string(rune('a'+i%26))+string(rune('a'+i/26))), "x"))
		}(i)
	}
	wg.Wait()

	public, err := p.Stat(ctx, "/Public")
	require.NoError(t, err)
	assert.Len(t, public.Children, n)
	assertLinked(t, p, "/Public")
}

func TestCancelledCallerSkipsQueuedWork(t *testing.T) {
	p := newTestProvider(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.WriteFile(ctx, "/Users/late.txt", "x")
	assert.ErrorIs(t, err, context.Canceled)

	exists, err := p.Exists(context.Background(), "/Users/late.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenBlob("", nil)
	require.NoError(t, err)
	p := New(store, Options{})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.WriteFile(ctx, "/x", "y"), ErrClosed)
	_, err = p.Stat(ctx, "/")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSQLiteBackedProvider(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "osfs.db")

	store, err := storage.OpenSQLite(ctx, dsn, nil)
	require.NoError(t, err)
	p := New(store, Options{})
	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Mkdir(ctx, "/Users/docs"))
	require.NoError(t, p.WriteFile(ctx, "/Users/docs/a.txt", "persisted"))
	require.NoError(t, p.Close())

	store, err = storage.OpenSQLite(ctx, dsn, nil)
	require.NoError(t, err)
	p = New(store, Options{})
	defer p.Close()
	require.NoError(t, p.Init(ctx))

	content, ok, err := p.ReadFile(ctx, "/Users/docs/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", content)

	root, err := p.Stat(ctx, "/")
	require.NoError(t, err)
	sorted := append([]string(nil), root.Children...)
	sort.Strings(sorted)
	want := append([]string(nil), paths.StandardFolders...)
	sort.Strings(want)
	assert.Equal(t, want, sorted)
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingObserver) RecordFSOperation(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.ops = append(r.ops, op+":"+status)
}

func TestObserver(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	p := newTestProvider(t, Options{Observer: obs, Parents: ParentsStrict})

	require.NoError(t, p.WriteFile(ctx, "/Users/a", "x"))
	_ = p.WriteFile(ctx, "/missing/a", "x")
	_, _ = p.Stat(ctx, "/Users/a")

	assert.Equal(t, []string{"init:ok", "write:ok", "write:error", "stat:ok"}, obs.ops)
}
