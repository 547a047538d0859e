package filesystem

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// Apps chosen by OpenWith
const (
	AppBrowser  = "browser"
	AppEditor   = "editor"
	AppExplorer = "explorer"
)

// extension associations checked before content sniffing
var extensionApps = map[string]string{
	".html": AppBrowser,
	".htm":  AppBrowser,
	".txt":  AppEditor,
	".md":   AppEditor,
	".ini":  AppEditor,
	".json": AppEditor,
	".js":   AppEditor,
	".css":  AppEditor,
	".log":  AppEditor,
}

// SetTags replaces the tags of the node at path
func (p *Provider) SetTags(ctx context.Context, path string, tags []string) (err error) {
	defer p.observe("set_tags", time.Now(), &err)
	tags = append([]string(nil), tags...)
	return p.update(ctx, paths.Clean(path), false, func(n *types.Node) {
		n.Tags = tags
	})
}

// SetPreview sets the preview reference of the node at path
func (p *Provider) SetPreview(ctx context.Context, path, ref string) (err error) {
	defer p.observe("set_preview", time.Now(), &err)
	return p.update(ctx, paths.Clean(path), false, func(n *types.Node) {
		n.Preview = ref
	})
}

// SetAssocApp sets the app a file opens with. Folders are left alone.
func (p *Provider) SetAssocApp(ctx context.Context, path, app string) (err error) {
	defer p.observe("set_assoc_app", time.Now(), &err)
	return p.update(ctx, paths.Clean(path), true, func(n *types.Node) {
		n.AssocApp = app
	})
}

// update applies fn to the stored node in place and bumps its mtime
func (p *Provider) update(ctx context.Context, path string, fileOnly bool, fn func(*types.Node)) error {
	return p.submit(ctx, func(ctx context.Context) error {
		node, err := p.get(ctx, path)
		if err != nil {
			return err
		}
		if node == nil {
			return p.strict(fmt.Errorf("%s: %w", path, ErrNotFound))
		}
		if fileOnly && !node.IsFile() {
			return p.strict(fmt.Errorf("%s: %w", path, ErrNotFile))
		}
		fn(node)
		node.MTime = p.opts.Clock()
		return p.put(ctx, node)
	})
}

func (p *Provider) strict(err error) error {
	if p.opts.Parents == ParentsStrict {
		return err
	}
	return nil
}

// OpenWith picks the app for the node at path: its association if set,
// explorer for folders, otherwise by extension and then by sniffing the
// content. Unknown files and missing paths return "".
func (p *Provider) OpenWith(ctx context.Context, path string) (string, error) {
	node, err := p.Stat(ctx, path)
	if err != nil || node == nil {
		return "", err
	}
	if node.AssocApp != "" {
		return node.AssocApp, nil
	}
	if node.IsFolder() {
		return AppExplorer, nil
	}
	return appForContent(node.Name, node.Content), nil
}

func appForContent(name, content string) string {
	if app, ok := extensionApps[strings.ToLower(path.Ext(name))]; ok {
		return app
	}

	mtype := mimetype.Detect([]byte(content))
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/html") {
			return AppBrowser
		}
	}
	if isText(mtype) {
		return AppEditor
	}
	return ""
}

// MIMEType sniffs the content of the file at path. Folders and missing
// paths return "".
func (p *Provider) MIMEType(ctx context.Context, path string) (string, error) {
	content, ok, err := p.ReadFile(ctx, path)
	if err != nil || !ok {
		return "", err
	}
	return mimetype.Detect([]byte(content)).String(), nil
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") ||
			m.Is("application/json") ||
			m.Is("application/xml") ||
			m.Is("application/javascript") {
			return true
		}
	}
	return false
}

// formatBytes formats bytes to human-readable size
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
