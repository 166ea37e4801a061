package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug-level logging
//   - --config: config file (default ~/.config/treeviz/config.toml)
//
// The config file is read before any subcommand runs; subcommand flags
// override its values.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "treeviz draws data-tree relationship diagrams",
		Long: `treeviz turns a data tree (datasets, their dimensions and the relationships
that index one dataset by another) into a Graphviz diagram. Each dataset is a
table of its dimensions and join variables; edges run from a parent variable
to the child dimension it indexes.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treeviz/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.describeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
