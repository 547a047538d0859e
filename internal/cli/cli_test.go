package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxos/backend/internal/infrastructure/config"
	"github.com/nyxos/backend/internal/storage"
)

type harness struct {
	t   *testing.T
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendBlob
	cfg.Storage.FallbackPath = filepath.Join(t.TempDir(), "osfs.json")
	return &harness{t: t, cfg: cfg}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	cmd := NewRootCommand(h.cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) must(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, strings.Join(args, " "))
	return out
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "seeded blob filesystem\n", h.must("init"))
	assert.Equal(t, "already initialized\n", h.must("init"))

	out := h.must("ls", "/")
	for _, name := range []string{"home/", "apps/", "config/", "tmp/", "var/", "etc/"} {
		assert.Contains(t, out, name)
	}
	assert.Equal(t, "[run]\nexplorer\n", h.must("cat", "/config/autoexec.ini"))
}

func TestWriteCatPersists(t *testing.T) {
	h := newHarness(t)
	h.must("init")

	h.must("write", "/home/user/a.txt", "hello")
	assert.Equal(t, "hello", h.must("cat", "/home/user/a.txt"))

	_, err := h.run("from stdin", "write", "/home/user/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", h.must("cat", "/home/user/b.txt"))

	_, err = h.run("", "cat", "/home/user/none.txt")
	assert.Error(t, err)
}

func TestMkdirMvRm(t *testing.T) {
	h := newHarness(t)
	h.must("init")

	h.must("mkdir", "/home/user/docs", "/home/user/docs/old")
	h.must("write", "/home/user/docs/old/x.txt", "x")
	h.must("mv", "/home/user/docs", "/home/user/papers")

	assert.Equal(t, "x", h.must("cat", "/home/user/papers/old/x.txt"))
	assert.NotContains(t, h.must("ls", "/home/user"), "docs/")

	h.must("rm", "/home/user/papers")
	assert.NotContains(t, h.must("ls", "/home/user"), "papers/")

	_, err := h.run("", "mv", "/home", "/home/user/home")
	assert.Error(t, err)
}

func TestStrictFlag(t *testing.T) {
	h := newHarness(t)
	h.must("init")

	_, err := h.run("", "--strict", "write", "/missing/dir/a.txt", "x")
	assert.Error(t, err)

	_, err = h.run("", "write", "/missing/dir/a.txt", "x")
	assert.NoError(t, err)
}

func TestStatAndTag(t *testing.T) {
	h := newHarness(t)
	h.must("init")
	h.must("write", "/home/user/page.html", "<html><body>hi</body></html>")
	h.must("tag", "/home/user/page.html", "work", "draft")

	out := h.must("stat", "/home/user/page.html")
	assert.Contains(t, out, "type:     file")
	assert.Contains(t, out, "tags:     work, draft")
	assert.Contains(t, out, "opens in: browser")

	_, err := h.run("", "stat", "/nope")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	h := newHarness(t)
	h.must("init")
	h.must("write", "/home/user/report.txt", "r")
	h.must("tag", "/home/user/report.txt", "quarterly")

	assert.Contains(t, h.must("find", "REPORT"), "/home/user/report.txt")
	assert.Contains(t, h.must("find", "quarter"), "/home/user/report.txt")
	assert.Equal(t, "/config/autoexec.ini\n/config/theme.ini\n", h.must("find", "--glob", "/config/*.ini"))
}

func TestDump(t *testing.T) {
	h := newHarness(t)
	h.must("init")

	for _, format := range []string{"json", "yaml", "toml"} {
		out := h.must("dump", "--root", "/config", "--format", format)
		assert.Contains(t, out, "theme.ini", format)
	}

	_, err := h.run("", "dump", "--format", "xml")
	assert.Error(t, err)
}

func TestArchiveExtract(t *testing.T) {
	h := newHarness(t)
	h.must("init")
	h.must("mkdir", "/home/user/proj")
	h.must("write", "/home/user/proj/main.txt", "body")

	for _, compress := range []string{"none", "gzip", "zstd"} {
		t.Run(compress, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "proj.tar")
			h.must("archive", "/home/user/proj", "--out", file, "--compress", compress)

			dest := "/tmp/" + compress
			h.must("mkdir", dest)
			h.must("extract", file, "--dest", dest, "--compress", compress)
			assert.Equal(t, "body", h.must("cat", dest+"/main.txt"))
		})
	}
}
