package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/diagram"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a data tree document",
		Long: `Check that a data tree document parses, that every dataset taking part in a
relationship has its dimensions declared, that every relationship indexes a
declared dimension, and that the tree builds into a diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}
}

func runValidate(ctx context.Context, input string) error {
	tree, err := loadTree(ctx, input)
	if err != nil {
		return err
	}
	if err := tree.Validate(); err != nil {
		printError("%s is invalid", input)
		return err
	}
	desc, err := diagram.Build(tree)
	if err != nil {
		printError("%s is invalid", input)
		return err
	}
	printSuccess("%s is valid", input)
	printStats(desc.NodeCount(), desc.EdgeCount(), statusNone)
	return nil
}
