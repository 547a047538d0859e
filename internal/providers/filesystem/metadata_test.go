package filesystem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTagsBumpsMTime(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.WriteFile(ctx, "/Users/a.txt", "x"))
	before, err := p.Stat(ctx, "/Users/a.txt")
	require.NoError(t, err)

	require.NoError(t, p.SetTags(ctx, "/Users/a.txt", []string{"red", "work"}))

	after, err := p.Stat(ctx, "/Users/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "work"}, after.Tags)
	assert.True(t, after.MTime.After(before.MTime))
	assert.Equal(t, "x", after.Content)
}

func TestMetadataOnMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	assert.NoError(t, p.SetTags(ctx, "/missing", []string{"x"}))
	assert.NoError(t, p.SetPreview(ctx, "/missing", "ref"))
	assert.NoError(t, p.SetAssocApp(ctx, "/missing", "editor"))

	exists, err := p.Exists(ctx, "/missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSetAssocAppIgnoresFolders(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.SetAssocApp(ctx, "/Users", "editor"))
	node, err := p.Stat(ctx, "/Users")
	require.NoError(t, err)
	assert.Empty(t, node.AssocApp)
}

func TestOpenWith(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.WriteFile(ctx, "/Public/page.html", "<p>x</p>"))
	require.NoError(t, p.WriteFile(ctx, "/Public/notes.txt", "plain"))
	require.NoError(t, p.WriteFile(ctx, "/Public/page", "<!DOCTYPE html><html><body>hi</body></html>"))
	require.NoError(t, p.WriteFile(ctx, "/Public/readme", "just some words"))
	require.NoError(t, p.WriteFile(ctx, "/Public/blob", "\x00\x01\x02\x03\xff\xfe"))
	require.NoError(t, p.WriteFile(ctx, "/Public/custom.txt", "x"))
	require.NoError(t, p.SetAssocApp(ctx, "/Public/custom.txt", "terminal"))

	tests := []struct {
		path string
		want string
	}{
		{"/Public/page.html", AppBrowser},
		{"/Public/notes.txt", AppEditor},
		{"/Public/page", AppBrowser},
		{"/Public/readme", AppEditor},
		{"/Public/blob", ""},
		{"/Public/custom.txt", "terminal"},
		{"/Public", AppExplorer},
		{"/Public/missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			app, err := p.OpenWith(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, app)
		})
	}
}

func TestMIMEType(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, Options{})

	require.NoError(t, p.WriteFile(ctx, "/Public/data", `{"a": 1}`))

	mime, err := p.MIMEType(ctx, "/Public/data")
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)

	mime, err = p.MIMEType(ctx, "/Public")
	require.NoError(t, err)
	assert.Empty(t, mime)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.00 KB", formatBytes(1024))
	assert.Equal(t, "1.50 MB", formatBytes(1536*1024))
}
