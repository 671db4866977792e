package cmd

import (
	"fmt"

	"github.com/contentgraph/pagetree/internal/mcpserver"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var serveHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hierarchy engine as MCP tools (stdio by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		resolver, st, err := openResolver()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		s := mcpserver.NewServer(resolver)

		addr := serveHTTPAddr
		if addr == "" {
			addr = cfg.Serve.Listen
		}
		if addr != "" {
			fmt.Printf("Serving MCP on HTTP address %s\n", addr)
			httpServer := server.NewStreamableHTTPServer(s)
			return httpServer.Start(addr)
		}
		return server.ServeStdio(s)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "HTTP server address (e.g. ':8080'); empty serves stdio")
	rootCmd.AddCommand(serveCmd)
}
