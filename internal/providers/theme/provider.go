package theme

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nyxos/backend/internal/shared/ini"
	"github.com/nyxos/backend/internal/shared/paths"
	"github.com/nyxos/backend/internal/shared/types"
)

// DefaultTheme is used when theme.ini is missing or names nothing
const DefaultTheme = "default"

// CustomDir holds one INI file per user-created theme
const CustomDir = paths.Config + "/themes"

// FS is the part of the filesystem themes are stored in
type FS interface {
	ReadFile(ctx context.Context, path string) (string, bool, error)
	WriteFile(ctx context.Context, path, content string) error
	Mkdir(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, path string) ([]types.Node, error)
}

// Theme represents a UI theme
type Theme struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Type    string            `json:"type"` // "dark", "light", "custom"
	Colors  map[string]string `json:"colors"`
	BuiltIn bool              `json:"builtIn"`
}

var builtins = map[string]Theme{
	"default": {
		ID:      "default",
		Name:    "Default",
		Type:    "dark",
		Colors:  map[string]string{"accent": "#308aff", "background": "#181c25"},
		BuiltIn: true,
	},
	"light": {
		ID:      "light",
		Name:    "Light",
		Type:    "light",
		Colors:  map[string]string{"accent": "#4fc3f7", "background": "#f8f9fa"},
		BuiltIn: true,
	},
	"dark": {
		ID:      "dark",
		Name:    "Dark",
		Type:    "dark",
		Colors:  map[string]string{"accent": "#232a39", "background": "#11131a"},
		BuiltIn: true,
	},
}

// Provider implements theme management on top of /config/theme.ini
type Provider struct {
	fs FS
}

// NewProvider creates a theme provider
func NewProvider(fs FS) *Provider {
	return &Provider{fs: fs}
}

// Definition returns service metadata
func (t *Provider) Definition() types.Service {
	return types.Service{
		ID:          "theme",
		Name:        "Theme Manager",
		Description: "Manage UI themes and appearance",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"list",
			"get",
			"set",
			"create",
			"delete",
		},
		Tools: []types.Tool{
			{
				ID:          "theme.list",
				Name:        "List Themes",
				Description: "List all available themes",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "theme.get",
				Name:        "Get Theme",
				Description: "Get a theme by ID, or the active theme when no ID is given",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: false},
				},
				Returns: "Theme",
			},
			{
				ID:          "theme.set",
				Name:        "Set Theme",
				Description: "Set the active theme",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "theme.create",
				Name:        "Create Theme",
				Description: "Create a custom theme",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
					{Name: "name", Type: "string", Description: "Display name", Required: false},
					{Name: "colors", Type: "object", Description: "Color map (accent, background, ...)", Required: true},
				},
				Returns: "Theme",
			},
			{
				ID:          "theme.delete",
				Name:        "Delete Theme",
				Description: "Delete a custom theme",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a theme operation
func (t *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "theme.list":
		return t.list(ctx)
	case "theme.get":
		return t.get(ctx, params)
	case "theme.set":
		return t.set(ctx, params)
	case "theme.create":
		return t.create(ctx, params)
	case "theme.delete":
		return t.delete(ctx, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// Current returns the id named in /config/theme.ini
func (t *Provider) Current(ctx context.Context) (string, error) {
	src, ok, err := t.fs.ReadFile(ctx, paths.ThemeINI)
	if err != nil || !ok {
		return DefaultTheme, err
	}
	if name, ok := ini.Parse(src).Section("theme").Get("name"); ok && name != "" {
		return name, nil
	}
	return DefaultTheme, nil
}

// Lookup finds a built-in or custom theme
func (t *Provider) Lookup(ctx context.Context, id string) (*Theme, error) {
	if theme, ok := builtins[id]; ok {
		return &theme, nil
	}
	src, ok, err := t.fs.ReadFile(ctx, customPath(id))
	if err != nil || !ok {
		return nil, err
	}
	return parseCustom(id, src), nil
}

func (t *Provider) list(ctx context.Context) (*types.Result, error) {
	themes := make([]Theme, 0, len(builtins))
	for _, id := range []string{"default", "light", "dark"} {
		themes = append(themes, builtins[id])
	}

	entries, err := t.fs.List(ctx, CustomDir)
	if err != nil {
		return failure(fmt.Sprintf("list failed: %v", err))
	}
	var custom []Theme
	for _, e := range entries {
		if !e.IsFile() || !strings.HasSuffix(e.Name, ".ini") {
			continue
		}
		custom = append(custom, *parseCustom(strings.TrimSuffix(e.Name, ".ini"), e.Content))
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i].ID < custom[j].ID })
	themes = append(themes, custom...)

	return success(map[string]interface{}{"themes": themes, "count": len(themes)})
}

func (t *Provider) get(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	id, _ := params["id"].(string)
	if id == "" {
		current, err := t.Current(ctx)
		if err != nil {
			return failure(fmt.Sprintf("read theme failed: %v", err))
		}
		id = current
	}

	theme, err := t.Lookup(ctx, id)
	if err != nil {
		return failure(fmt.Sprintf("read theme failed: %v", err))
	}
	if theme == nil {
		return failure(fmt.Sprintf("theme not found: %s", id))
	}
	return success(map[string]interface{}{"theme": theme})
}

func (t *Provider) set(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	theme, err := t.Lookup(ctx, id)
	if err != nil {
		return failure(fmt.Sprintf("read theme failed: %v", err))
	}
	if theme == nil {
		return failure(fmt.Sprintf("theme not found: %s", id))
	}

	if err := t.fs.WriteFile(ctx, paths.ThemeINI, "[theme]\nname="+id+"\n"); err != nil {
		return failure(fmt.Sprintf("write theme failed: %v", err))
	}
	return success(map[string]interface{}{"set": true, "theme": id})
}

func (t *Provider) create(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" || strings.ContainsAny(id, "/\n=[]") {
		return failure("valid id parameter required")
	}
	if _, ok := builtins[id]; ok {
		return failure("cannot replace built-in theme")
	}
	raw, ok := params["colors"].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return failure("colors parameter must be an object")
	}

	theme := Theme{ID: id, Name: id, Type: "custom", Colors: map[string]string{}}
	if name, ok := params["name"].(string); ok && name != "" {
		theme.Name = name
	}
	for k, v := range raw {
		if s, ok := v.(string); ok {
			theme.Colors[k] = s
		}
	}

	exists, err := t.fs.Exists(ctx, CustomDir)
	if err != nil {
		return failure(err.Error())
	}
	if !exists {
		if err := t.fs.Mkdir(ctx, CustomDir); err != nil {
			return failure(fmt.Sprintf("create theme folder failed: %v", err))
		}
	}
	if err := t.fs.WriteFile(ctx, customPath(id), formatCustom(theme)); err != nil {
		return failure(fmt.Sprintf("write theme failed: %v", err))
	}

	return success(map[string]interface{}{
		"created": true,
		"theme":   theme,
	})
}

func (t *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	// Don't allow deleting built-in themes
	if _, ok := builtins[id]; ok {
		return failure("cannot delete built-in theme")
	}

	if err := t.fs.Delete(ctx, customPath(id)); err != nil {
		return failure(fmt.Sprintf("delete theme failed: %v", err))
	}
	return success(map[string]interface{}{"deleted": true, "id": id})
}

func customPath(id string) string {
	return paths.Join(CustomDir, id+".ini")
}

func parseCustom(id, src string) *Theme {
	f := ini.Parse(src)
	theme := &Theme{ID: id, Name: id, Type: "custom", Colors: map[string]string{}}
	if name, ok := f.Section("theme").Get("name"); ok && name != "" {
		theme.Name = name
	}
	if colors := f.Section("colors"); colors != nil {
		for _, e := range colors.Entries {
			if !e.Bare {
				theme.Colors[e.Key] = e.Value
			}
		}
	}
	return theme
}

func formatCustom(theme Theme) string {
	keys := make([]string, 0, len(theme.Colors))
	for k := range theme.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("[theme]\nname=" + theme.Name + "\n\n[colors]\n")
	for _, k := range keys {
		b.WriteString(k + "=" + theme.Colors[k] + "\n")
	}
	return b.String()
}

// Helper functions
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
