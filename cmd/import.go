package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/contentgraph/pagetree/api"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [export.json]",
	Short: "Import a JSON export of content collections into the store",
	Long: `Import reads a JSON object mapping collection names to arrays of
content nodes, inserts every node, then recomputes derived breadcrumbs
and URLs for the whole import. Nodes without a slug get one derived from
their title.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}
		var export map[string][]*api.ContentNode
		if err := oj.Unmarshal(data, &export); err != nil {
			return fmt.Errorf("parse export: %w", err)
		}

		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx := cmd.Context()
		start := time.Now()
		inserted := 0
		for collection, nodes := range export {
			for _, n := range nodes {
				if n.Slug == "" {
					n.Slug = api.Slugify(n.Title)
				}
				if err := st.Insert(ctx, collection, n); err != nil {
					return fmt.Errorf("insert %s/%s: %w", collection, n.ID, err)
				}
				inserted++
			}
		}

		// Second pass once every parent is present: persist derived fields.
		recomputed := 0
		for collection, nodes := range export {
			for _, n := range nodes {
				if _, _, err := resolver.RecomputeAndStore(ctx, collection, n.ID); err != nil {
					return fmt.Errorf("recompute %s/%s: %w", collection, n.ID, err)
				}
				recomputed++
			}
		}

		fmt.Printf("imported %d node(s), recomputed %d, in %v\n",
			inserted, recomputed, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
