package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nyxos/backend/internal/boot"
	"github.com/nyxos/backend/internal/providers/filesystem"
	"github.com/nyxos/backend/internal/shared/types"
	"github.com/nyxos/backend/internal/vfs"
)

func newInitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Seed a fresh filesystem",
		Long: `Creates the default layout (/home/user, /apps, /config, ...) and the
default autoexec.ini, theme.ini and welcome file when the root is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				seeded, err := boot.FirstBoot(ctx, fs, nil)
				if err != nil {
					return err
				}
				if err := fs.Init(ctx); err != nil {
					return err
				}
				if seeded {
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %s filesystem\n", fs.Backend())
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "already initialized")
				}
				return nil
			})
		},
	}
}

func newLsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				nodes, err := fs.List(ctx, path)
				if err != nil {
					return err
				}
				printNodes(cmd.OutOrStdout(), nodes)
				return nil
			})
		},
	}
}

func printNodes(out io.Writer, nodes []types.Node) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range nodes {
		kind, name := "-", n.Name
		if n.IsFolder() {
			kind, name = "d", n.Name+"/"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", kind, len(n.Content), n.MTime.Format("2006-01-02 15:04"), name)
	}
	tw.Flush()
}

func newCatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				content, ok, err := fs.ReadFile(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s: no such file", args[0])
				}
				_, err = io.WriteString(cmd.OutOrStdout(), content)
				return err
			})
		},
	}
}

func newWriteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "write <path> [content]",
		Short: "Write a file, reading stdin when content is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if len(args) == 2 {
				content = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				return fs.WriteFile(ctx, args[0], content)
			})
		},
	}
}

func newMkdirCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>...",
		Short: "Create folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				for _, path := range args {
					if err := fs.Mkdir(ctx, path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRmCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files or folders with everything beneath them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				for _, path := range args {
					if err := fs.Delete(ctx, path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newMvCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <src> <dest>",
		Short: "Move or rename a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				return fs.Move(ctx, args[0], args[1])
			})
		},
	}
}

func newStatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Print a node's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				node, err := fs.Stat(ctx, args[0])
				if err != nil {
					return err
				}
				if node == nil {
					return fmt.Errorf("%s: not found", args[0])
				}
				app, err := fs.OpenWith(ctx, node.Path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "path:     %s\n", node.Path)
				fmt.Fprintf(out, "type:     %s\n", node.Type)
				fmt.Fprintf(out, "mtime:    %s\n", node.MTime.Format("2006-01-02T15:04:05Z07:00"))
				if node.IsFolder() {
					fmt.Fprintf(out, "children: %d\n", len(node.Children))
				} else {
					fmt.Fprintf(out, "size:     %d\n", len(node.Content))
				}
				if len(node.Tags) > 0 {
					fmt.Fprintf(out, "tags:     %s\n", strings.Join(node.Tags, ", "))
				}
				if app != "" {
					fmt.Fprintf(out, "opens in: %s\n", app)
				}
				return nil
			})
		},
	}
}

func newFindCommand(opts *options) *cobra.Command {
	var (
		root string
		glob bool
	)
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find nodes by name, tag or glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				var (
					nodes []types.Node
					err   error
				)
				if glob {
					nodes, err = fs.Glob(ctx, root, args[0])
				} else {
					nodes, err = fs.Search(ctx, root, args[0])
				}
				if err != nil {
					return err
				}
				for _, n := range nodes {
					fmt.Fprintln(cmd.OutOrStdout(), n.Path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&root, "root", "/", "Folder to search under")
	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "Treat the query as a path glob only")
	return cmd
}

func newTagCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <path> [tag]...",
		Short: "Replace a node's tags; no tags clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				return fs.SetTags(ctx, args[0], args[1:])
			})
		},
	}
}

func newDumpCommand(opts *options) *cobra.Command {
	var (
		root   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a subtree as json, yaml or toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				data, err := fs.Export(ctx, root, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&root, "root", "/", "Subtree to dump")
	cmd.Flags().StringVarP(&format, "format", "f", filesystem.FormatJSON, "Output format [json|yaml|toml]")
	return cmd
}

func newArchiveCommand(opts *options) *cobra.Command {
	var (
		out      string
		compress string
	)
	cmd := &cobra.Command{
		Use:   "archive <root>",
		Short: "Write a subtree to a tar archive on the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				n, err := fs.Archive(ctx, args[0], w, compress)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "archived %d entries\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Archive file, - for stdout")
	cmd.Flags().StringVarP(&compress, "compress", "z", filesystem.CompressionGzip, "Compression [none|gzip|zstd]")
	return cmd
}

func newExtractCommand(opts *options) *cobra.Command {
	var (
		dest     string
		compress string
	)
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Unpack a tar archive from the host into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return opts.withFS(cmd, func(ctx context.Context, fs *vfs.FileSystem) error {
				n, err := fs.Extract(ctx, r, dest, compress)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "extracted %d entries\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "/home/user", "Folder to extract into")
	cmd.Flags().StringVarP(&compress, "compress", "z", filesystem.CompressionGzip, "Compression [none|gzip|zstd]")
	return cmd
}
