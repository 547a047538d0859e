package boot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/ini"
	"github.com/nyxos/backend/internal/shared/paths"
)

// Launcher starts an app by identifier
type Launcher interface {
	Launch(ctx context.Context, appID string) error
}

// LauncherFunc adapts a function to Launcher
type LauncherFunc func(ctx context.Context, appID string) error

// Launch calls f
func (f LauncherFunc) Launch(ctx context.Context, appID string) error {
	return f(ctx, appID)
}

// RunList returns the app ids named by an autoexec script: top-level run
// keys in order, then every [run] entry in order
func RunList(src string) []string {
	f := ini.Parse(src)
	ids := f.Global.GetAll("run")
	for _, id := range f.Section("run").Items() {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RunAutoexec launches every app named in /config/autoexec.ini in order.
// A missing script does nothing. A failed launch is logged and the rest
// still run; all failures are returned joined.
func RunAutoexec(ctx context.Context, fs FS, launcher Launcher, logger *logging.Logger) ([]string, error) {
	logger = logging.OrNop(logger).Named("autoexec")

	src, ok, err := fs.ReadFile(ctx, paths.AutoexecINI)
	if err != nil {
		return nil, fmt.Errorf("autoexec: %w", err)
	}
	if !ok {
		logger.Debug("no autoexec script")
		return nil, nil
	}

	ids := RunList(src)
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := launcher.Launch(ctx, id); err != nil {
			logger.Warn("autoexec launch failed", zap.String("app", id), zap.Error(err))
			errs = append(errs, fmt.Errorf("launch %s: %w", id, err))
			continue
		}
		logger.Info("autoexec launched", zap.String("app", id))
	}
	return ids, errors.Join(errs...)
}
