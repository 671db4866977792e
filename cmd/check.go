package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [collection...]",
	Short: "Scan the store for cycles, broken links, and stale URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		findings, err := resolver.Doctor(cmd.Context(), args)
		if err != nil {
			return err
		}
		for _, f := range findings {
			fmt.Println(f)
		}
		if len(findings) > 0 {
			return fmt.Errorf("%d finding(s)", len(findings))
		}
		fmt.Println("store is consistent")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
