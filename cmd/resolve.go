package cmd

import (
	"fmt"

	"github.com/contentgraph/pagetree/internal/hierarchy"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [collection] [node]",
	Short: "Resolve a node's URL and breadcrumbs from current stored links",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		cache := hierarchy.NewOpCache()
		derived, err := resolver.Recompute(cmd.Context(), cache, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(oj.JSON(derived, 2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
