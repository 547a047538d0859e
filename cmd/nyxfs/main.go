// Command nyxfs inspects and edits the NyxOS filesystem from the host.
package main

import (
	"os"

	"github.com/nyxos/backend/internal/cli"
	"github.com/nyxos/backend/internal/infrastructure/config"
)

func main() {
	if err := cli.NewRootCommand(config.LoadOrDefault()).Execute(); err != nil {
		os.Exit(1)
	}
}
