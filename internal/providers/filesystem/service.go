package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// Operations is the filesystem surface the service drives. Both *Provider
// and the vfs facade implement it.
type Operations interface {
	List(ctx context.Context, path string) ([]types.Node, error)
	ReadFile(ctx context.Context, path string) (string, bool, error)
	WriteFile(ctx context.Context, path, content string) error
	Mkdir(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error
	Move(ctx context.Context, src, dest string) error
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (*types.Node, error)
	SetTags(ctx context.Context, path string, tags []string) error
	SetPreview(ctx context.Context, path, ref string) error
	SetAssocApp(ctx context.Context, path, app string) error
	Search(ctx context.Context, root, query string) ([]types.Node, error)
	Glob(ctx context.Context, root, pattern string) ([]types.Node, error)
	OpenWith(ctx context.Context, path string) (string, error)
	MIMEType(ctx context.Context, path string) (string, error)
	Export(ctx context.Context, root, format string) ([]byte, error)
}

// Service exposes filesystem operations as filesystem.* tools
type Service struct {
	fs Operations
}

// NewService creates the filesystem service
func NewService(fs Operations) *Service {
	return &Service{fs: fs}
}

// Definition returns service metadata
func (s *Service) Definition() types.Service {
	pathParam := func(desc string) types.Parameter {
		return types.Parameter{Name: "path", Type: "string", Description: desc, Required: true}
	}

	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Persistent virtual filesystem shared by every app",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"list",
			"stat",
			"move",
			"delete",
			"tag",
			"search",
			"export",
		},
		Tools: []types.Tool{
			{
				ID:          "filesystem.list",
				Name:        "List Directory",
				Description: "List contents of a folder",
				Parameters:  []types.Parameter{pathParam("Folder path")},
				Returns:     "array",
			},
			{
				ID:          "filesystem.stat",
				Name:        "Node Info",
				Description: "Get file or folder metadata",
				Parameters:  []types.Parameter{pathParam("File or folder path")},
				Returns:     "object",
			},
			{
				ID:          "filesystem.read",
				Name:        "Read File",
				Description: "Read file contents",
				Parameters:  []types.Parameter{pathParam("File path")},
				Returns:     "string",
			},
			{
				ID:          "filesystem.write",
				Name:        "Write File",
				Description: "Create or overwrite a file",
				Parameters: []types.Parameter{
					pathParam("File path"),
					{Name: "content", Type: "string", Description: "Full file content", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.mkdir",
				Name:        "Create Folder",
				Description: "Create an empty folder",
				Parameters:  []types.Parameter{pathParam("Folder path")},
				Returns:     "boolean",
			},
			{
				ID:          "filesystem.delete",
				Name:        "Delete",
				Description: "Delete a file or a folder with everything in it",
				Parameters:  []types.Parameter{pathParam("File or folder path")},
				Returns:     "boolean",
			},
			{
				ID:          "filesystem.move",
				Name:        "Move/Rename",
				Description: "Move or rename a file or folder",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.exists",
				Name:        "Check Existence",
				Description: "Check if a file or folder exists",
				Parameters:  []types.Parameter{pathParam("File or folder path")},
				Returns:     "boolean",
			},
			{
				ID:          "filesystem.search",
				Name:        "Search",
				Description: "Find nodes by name, tag or glob under a folder",
				Parameters: []types.Parameter{
					pathParam("Root folder"),
					{Name: "query", Type: "string", Description: "Text or glob pattern", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "filesystem.glob",
				Name:        "Glob",
				Description: "Match paths with ** patterns (e.g. '/Users/**/*.txt')",
				Parameters: []types.Parameter{
					pathParam("Root folder"),
					{Name: "pattern", Type: "string", Description: "Glob pattern", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "filesystem.set_tags",
				Name:        "Set Tags",
				Description: "Replace the tags of a file or folder",
				Parameters: []types.Parameter{
					pathParam("File or folder path"),
					{Name: "tags", Type: "array", Description: "Tag labels", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.set_preview",
				Name:        "Set Preview",
				Description: "Set the preview reference shown by the explorer",
				Parameters: []types.Parameter{
					pathParam("File or folder path"),
					{Name: "preview", Type: "string", Description: "Preview URL or reference", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.set_assoc_app",
				Name:        "Set File Association",
				Description: "Choose the app a file opens with",
				Parameters: []types.Parameter{
					pathParam("File path"),
					{Name: "app", Type: "string", Description: "App identifier", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.open_with",
				Name:        "Open With",
				Description: "Resolve the app that opens a file or folder",
				Parameters:  []types.Parameter{pathParam("File or folder path")},
				Returns:     "string",
			},
			{
				ID:          "filesystem.mime_type",
				Name:        "MIME Type",
				Description: "Detect the MIME type of a file's content",
				Parameters:  []types.Parameter{pathParam("File path")},
				Returns:     "string",
			},
			{
				ID:          "filesystem.total_size",
				Name:        "Total Size",
				Description: "Sum of file content sizes under a folder",
				Parameters:  []types.Parameter{pathParam("Folder path")},
				Returns:     "object",
			},
			{
				ID:          "filesystem.export",
				Name:        "Export Tree",
				Description: "Serialize a subtree as json, yaml or toml",
				Parameters: []types.Parameter{
					pathParam("Root folder"),
					{Name: "format", Type: "string", Description: "json, yaml or toml (default json)", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.parse",
				Name:        "Parse Structured File",
				Description: "Parse a json, yaml or toml file into an object",
				Parameters: []types.Parameter{
					pathParam("File path"),
					{Name: "format", Type: "string", Description: "json, yaml or toml (default from extension)", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a filesystem tool
func (s *Service) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "filesystem.list":
		return s.list(ctx, params)
	case "filesystem.stat":
		return s.stat(ctx, params)
	case "filesystem.read":
		return s.read(ctx, params)
	case "filesystem.write":
		return s.write(ctx, params)
	case "filesystem.mkdir":
		return s.pathOp(ctx, params, s.fs.Mkdir)
	case "filesystem.delete":
		return s.pathOp(ctx, params, s.fs.Delete)
	case "filesystem.move":
		return s.move(ctx, params)
	case "filesystem.exists":
		return s.exists(ctx, params)
	case "filesystem.search":
		return s.search(ctx, params, "query", s.fs.Search)
	case "filesystem.glob":
		return s.search(ctx, params, "pattern", s.fs.Glob)
	case "filesystem.set_tags":
		return s.setTags(ctx, params)
	case "filesystem.set_preview":
		return s.setString(ctx, params, "preview", s.fs.SetPreview)
	case "filesystem.set_assoc_app":
		return s.setString(ctx, params, "app", s.fs.SetAssocApp)
	case "filesystem.open_with":
		return s.openWith(ctx, params)
	case "filesystem.mime_type":
		return s.mimeType(ctx, params)
	case "filesystem.total_size":
		return s.totalSize(ctx, params)
	case "filesystem.export":
		return s.export(ctx, params)
	case "filesystem.parse":
		return s.parse(ctx, params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Service) list(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	nodes, err := s.fs.List(ctx, path)
	if err != nil {
		return Failure(fmt.Sprintf("list failed: %v", err))
	}
	return Success(map[string]interface{}{"path": path, "entries": nodes, "count": len(nodes)})
}

func (s *Service) stat(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	node, err := s.fs.Stat(ctx, path)
	if err != nil {
		return Failure(fmt.Sprintf("stat failed: %v", err))
	}
	if node == nil {
		return Success(map[string]interface{}{"path": path, "exists": false})
	}
	return Success(map[string]interface{}{
		"path":       path,
		"exists":     true,
		"node":       node,
		"size":       len(node.Content),
		"size_human": formatBytes(int64(len(node.Content))),
	})
}

func (s *Service) read(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	content, found, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return Failure(fmt.Sprintf("read failed: %v", err))
	}
	if !found {
		return Failure(fmt.Sprintf("no such file: %s", path))
	}
	return Success(map[string]interface{}{"path": path, "content": content})
}

func (s *Service) write(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return Failure("content parameter required")
	}
	if err := s.fs.WriteFile(ctx, path, content); err != nil {
		return Failure(fmt.Sprintf("write failed: %v", err))
	}
	return Success(map[string]interface{}{"path": path, "written": true})
}

func (s *Service) pathOp(ctx context.Context, params map[string]interface{}, op func(context.Context, string) error) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	if err := op(ctx, path); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path})
}

func (s *Service) move(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	src, ok := pathParam(params, "source")
	if !ok {
		return Failure("source parameter required")
	}
	dest, ok := pathParam(params, "destination")
	if !ok {
		return Failure("destination parameter required")
	}
	if err := s.fs.Move(ctx, src, dest); err != nil {
		return Failure(fmt.Sprintf("move failed: %v", err))
	}
	return Success(map[string]interface{}{"source": src, "destination": dest})
}

func (s *Service) exists(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	exists, err := s.fs.Exists(ctx, path)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path, "exists": exists})
}

func (s *Service) search(ctx context.Context, params map[string]interface{}, key string, find func(context.Context, string, string) ([]types.Node, error)) (*types.Result, error) {
	root, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	query, ok := params[key].(string)
	if !ok || query == "" {
		return Failure(key + " parameter required")
	}
	nodes, err := find(ctx, root, query)
	if err != nil {
		return Failure(fmt.Sprintf("search failed: %v", err))
	}
	return Success(map[string]interface{}{"path": root, "matches": nodes, "count": len(nodes)})
}

func (s *Service) setTags(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	raw, ok := params["tags"].([]interface{})
	if !ok {
		return Failure("tags array required")
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if str, ok := t.(string); ok && str != "" {
			tags = append(tags, str)
		}
	}
	if err := s.fs.SetTags(ctx, path, tags); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path, "tags": tags})
}

func (s *Service) setString(ctx context.Context, params map[string]interface{}, key string, set func(context.Context, string, string) error) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	value, ok := params[key].(string)
	if !ok {
		return Failure(key + " parameter required")
	}
	if err := set(ctx, path, value); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path, key: value})
}

func (s *Service) openWith(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	app, err := s.fs.OpenWith(ctx, path)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path, "app": app})
}

func (s *Service) mimeType(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	mime, err := s.fs.MIMEType(ctx, path)
	if err != nil {
		return Failure(fmt.Sprintf("mime detection failed: %v", err))
	}
	return Success(map[string]interface{}{"path": path, "mime_type": mime})
}

func (s *Service) totalSize(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	nodes, err := s.fs.Search(ctx, root, "")
	if err != nil {
		return Failure(err.Error())
	}
	size := treeSize(nodes)
	return Success(map[string]interface{}{
		"path":       root,
		"total_size": size,
		"size_human": formatBytes(size),
		"nodes":      len(nodes),
	})
}

func (s *Service) export(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	format, _ := params["format"].(string)
	data, err := s.fs.Export(ctx, root, format)
	if err != nil {
		return Failure(fmt.Sprintf("export failed: %v", err))
	}
	return Success(map[string]interface{}{"path": root, "format": format, "data": string(data)})
}

func (s *Service) parse(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	format, _ := params["format"].(string)
	if format == "" {
		format = formatFromExt(path)
	}
	content, found, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return Failure(fmt.Sprintf("read failed: %v", err))
	}
	if !found {
		return Failure(fmt.Sprintf("no such file: %s", path))
	}
	parsed, err := Decode([]byte(content), format)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"path": path, "format": format, "data": parsed})
}

func formatFromExt(path string) string {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML
	case strings.HasSuffix(path, ".toml"):
		return FormatTOML
	default:
		return FormatJSON
	}
}

// pathParam reads a path parameter. Relative paths are anchored at the root
// like every other entry point.
func pathParam(params map[string]interface{}, key string) (string, bool) {
	p, ok := params[key].(string)
	if !ok || p == "" {
		return "", false
	}
	return paths.Clean(p), true
}

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
