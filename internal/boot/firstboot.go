package boot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/paths"
)

// Default file contents written on first boot
const (
	DefaultAutoexec = "[run]\nexplorer\n"
	DefaultTheme    = "[theme]\nname=default\n"
	WelcomeText     = "Welcome to your browser OS!\nThis file is persistent."
)

// FS is the part of the filesystem boot needs
type FS interface {
	Exists(ctx context.Context, path string) (bool, error)
	Mkdir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path, content string) error
	ReadFile(ctx context.Context, path string) (string, bool, error)
}

// layout is created in order so every parent exists before its children
var layout = []string{
	paths.Root,
	paths.Home,
	paths.UserHome,
	paths.Apps,
	paths.Config,
	paths.Tmp,
	paths.Var,
	paths.Etc,
}

var defaultFiles = []struct {
	path    string
	content string
}{
	{paths.AutoexecINI, DefaultAutoexec},
	{paths.ThemeINI, DefaultTheme},
	{paths.Welcome, WelcomeText},
}

// FirstBoot seeds the layout and default files when the root is missing.
// It reports whether anything was seeded.
func FirstBoot(ctx context.Context, fs FS, logger *logging.Logger) (bool, error) {
	logger = logging.OrNop(logger).Named("boot")

	exists, err := fs.Exists(ctx, paths.Root)
	if err != nil {
		return false, fmt.Errorf("first boot: %w", err)
	}
	if exists {
		return false, nil
	}

	for _, dir := range layout {
		if err := fs.Mkdir(ctx, dir); err != nil {
			return false, fmt.Errorf("first boot: mkdir %s: %w", dir, err)
		}
	}
	for _, f := range defaultFiles {
		if err := fs.WriteFile(ctx, f.path, f.content); err != nil {
			return false, fmt.Errorf("first boot: write %s: %w", f.path, err)
		}
	}

	logger.Info("first boot completed", zap.Int("folders", len(layout)), zap.Int("files", len(defaultFiles)))
	return true, nil
}
