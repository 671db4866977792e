package cmd

import (
	"fmt"

	"github.com/contentgraph/pagetree/internal/hierarchy"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [collection] [node] [parent]",
	Short: "Check a proposed parent assignment for cycles before saving it",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, node := args[0], args[1]
		parent := ""
		if len(args) == 3 {
			parent = args[2]
		}

		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		cache := hierarchy.NewOpCache()
		if err := resolver.ValidateParentAssignment(cmd.Context(), cache, collection, node, parent); err != nil {
			return fmt.Errorf("%s: %w", hierarchy.ErrorKind(err), err)
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
