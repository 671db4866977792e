package cmd

import (
	"fmt"
	"os"

	"github.com/contentgraph/pagetree/internal/config"
	"github.com/contentgraph/pagetree/internal/hierarchy"
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pagetree",
	Short: "Pagetree: content tree hierarchy engine",
	Long: `Pagetree maintains a tree of content nodes linked by single-parent
references and derives validated parent assignments, breadcrumb trails,
and canonical type-namespaced URLs from it.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to HCL config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite store (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// loadConfig resolves the effective configuration from flags and file.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// openResolver opens the configured SQLite store and wraps it in a
// resolver. The caller owns closing the returned store.
func openResolver() (*hierarchy.Resolver, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	resolver := hierarchy.New(hierarchy.Config{
		Store:    st,
		Logger:   newLogger(),
		MaxDepth: cfg.Hierarchy.MaxDepth,
	})
	return resolver, st, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
