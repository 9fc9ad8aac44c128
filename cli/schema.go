package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/JerryBerry12/substrata/config"
)

// SchemaAction prints the JSON schema of the configuration file.
func SchemaAction(cCtx *cli.Context) error {
	return printJSON(cCtx.App.Writer, config.Schema())
}
