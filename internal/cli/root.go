package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyxos/backend/internal/infrastructure/config"
	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/storage"
	"github.com/nyxos/backend/internal/vfs"
)

// options are the persistent flags shared by every subcommand
type options struct {
	backend  string
	dsn      string
	fallback string
	strict   bool
	verbose  bool
}

// NewRootCommand builds the nyxfs command tree. Defaults come from cfg, so
// the CLI and the server agree on where the filesystem lives.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &options{
		backend:  cfg.Storage.Backend,
		dsn:      cfg.Storage.DSN,
		fallback: cfg.Storage.FallbackPath,
		strict:   cfg.Filesystem.StrictParents,
	}

	root := &cobra.Command{
		Use:   "nyxfs",
		Short: "Inspect and edit the NyxOS filesystem",
		Long: `nyxfs operates directly on the store behind the NyxOS backend.

Stop the server first when using the sqlite or blob backends; the
filesystem assumes a single writer.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.backend, "backend", "b", opts.backend, "Store backend [sqlite|postgres|blob]")
	flags.StringVarP(&opts.dsn, "dsn", "d", opts.dsn, "Store DSN (sqlite file or postgres URL)")
	flags.StringVar(&opts.fallback, "fallback", opts.fallback, "Blob slot used when the backend cannot be opened")
	flags.BoolVar(&opts.strict, "strict", opts.strict, "Fail writes whose parent folder is missing")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log store activity to stderr")

	root.AddCommand(
		newInitCommand(opts),
		newLsCommand(opts),
		newCatCommand(opts),
		newWriteCommand(opts),
		newMkdirCommand(opts),
		newRmCommand(opts),
		newMvCommand(opts),
		newStatCommand(opts),
		newFindCommand(opts),
		newTagCommand(opts),
		newDumpCommand(opts),
		newArchiveCommand(opts),
		newExtractCommand(opts),
	)
	return root
}

func (o *options) open(ctx context.Context) (*vfs.FileSystem, error) {
	logger := logging.NewNop()
	if o.verbose {
		logger = logging.NewDevelopment()
	}
	fs, err := vfs.Open(ctx, vfs.Config{
		Storage: storage.Config{
			Backend:      o.backend,
			DSN:          o.dsn,
			FallbackPath: o.fallback,
		},
		StrictParents: o.strict,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open filesystem: %w", err)
	}
	return fs, nil
}

// withFS opens the filesystem for the duration of fn
func (o *options) withFS(cmd *cobra.Command, fn func(ctx context.Context, fs *vfs.FileSystem) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	fs, err := o.open(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, fs); err != nil {
		fs.Close()
		return err
	}
	return fs.Close()
}
