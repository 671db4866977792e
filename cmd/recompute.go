package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [collection] [node]",
	Short: "Recompute and persist a node's derived URL and breadcrumbs, then its descendants'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		start := time.Now()
		derived, updated, err := resolver.RecomputeAndStore(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("url: %s\n", derived.URL)
		fmt.Printf("breadcrumbs: %d, descendants updated: %d (%v)\n",
			len(derived.Breadcrumbs), updated, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
}
