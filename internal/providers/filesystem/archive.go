package filesystem

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// Archive compressions
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// Archive writes the subtree at root to w as a tar stream. Entry names are
// relative to root; folders are written before their contents.
func (p *Provider) Archive(ctx context.Context, root string, w io.Writer, compression string) (count int, err error) {
	defer p.observe("archive", time.Now(), &err)
	if p.closed.Load() {
		return 0, ErrClosed
	}
	root = paths.Clean(root)

	nodes, err := p.subtree(ctx, root)
	if err != nil {
		return 0, err
	}

	var closer io.Closer
	switch compression {
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		w, closer = gz, gz
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return 0, fmt.Errorf("zstd writer: %w", err)
		}
		w, closer = zw, zw
	case CompressionNone, "":
	default:
		return 0, fmt.Errorf("%w: compression %s", ErrUnknownFormat, compression)
	}
	defer func() {
		if closer != nil {
			_ = closer.Close()
		}
	}()

	tw := tar.NewWriter(w)
	for _, node := range nodes {
		if node.Path == root {
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(node.Path, root), "/")
		header := &tar.Header{
			Name:    name,
			ModTime: node.MTime,
			Mode:    0o644,
		}
		if node.IsFolder() {
			header.Typeflag = tar.TypeDir
			header.Name += "/"
			header.Mode = 0o755
		} else {
			header.Typeflag = tar.TypeReg
			header.Size = int64(len(node.Content))
		}
		if err := tw.WriteHeader(header); err != nil {
			return count, fmt.Errorf("write header %s: %w", name, err)
		}
		if node.IsFile() {
			if _, err := io.WriteString(tw, node.Content); err != nil {
				return count, fmt.Errorf("write %s: %w", name, err)
			}
		}
		count++
	}

	if err := tw.Close(); err != nil {
		return count, err
	}
	if closer != nil {
		c := closer
		closer = nil
		if err := c.Close(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Extract reads a tar stream into the folder at dest. Entries are created
// through Mkdir and WriteFile, so each needs its parent folder to exist
// (in the archive or already at dest). count covers only entries that were
// actually restored; orphans dropped by the silent parent policy are skipped.
func (p *Provider) Extract(ctx context.Context, r io.Reader, dest, compression string) (count int, err error) {
	defer p.observe("extract", time.Now(), &err)
	dest = paths.Clean(dest)

	switch compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return 0, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return 0, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionNone, "":
	default:
		return 0, fmt.Errorf("%w: compression %s", ErrUnknownFormat, compression)
	}

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("read archive: %w", err)
		}

		name := strings.Trim(header.Name, "/")
		if name == "" {
			continue
		}
		target := paths.Clean(paths.Join(dest, name))
		if !within(dest, target) {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			existing, err := p.Stat(ctx, target)
			if err != nil {
				return count, err
			}
			if existing.IsFolder() {
				continue
			}
			err = p.Mkdir(ctx, target)
			if err != nil {
				return count, err
			}
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				return count, fmt.Errorf("read %s: %w", name, err)
			}
			if err := p.WriteFile(ctx, target, string(data)); err != nil {
				return count, err
			}
		default:
			continue
		}

		restored, err := p.Exists(ctx, target)
		if err != nil {
			return count, err
		}
		if restored {
			count++
		}
	}
}

// within reports whether p is root or lies beneath it
func within(root, p string) bool {
	return paths.IsRoot(root) || p == root || strings.HasPrefix(p, root+"/")
}

// treeSize sums the content length of every file in nodes
func treeSize(nodes []types.Node) int64 {
	var total int64
	for _, n := range nodes {
		total += int64(len(n.Content))
	}
	return total
}
