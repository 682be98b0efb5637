// Command listctl drives a shopping list from the terminal using the same command
// engine as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/services"
)

var (
	owner    string
	lang     string
	asJSON   bool
	verbose  bool
	local    bool
	timeout  time.Duration
	recLimit int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listctl",
	Short: "Manage a voice shopping list from the command line",
	Long: `listctl interprets spoken-style commands against a shopping list.

Lists are stored in the database named by DATABASE_URL, or in the SQLite file
named by SQLITE_PATH (default ./voicelist.db).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&owner, "owner", "o", "local", "List owner")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	sayCmd.Flags().StringVarP(&lang, "lang", "l", "", "Recognition language (default DEFAULT_LANG)")
	sayCmd.Flags().BoolVar(&local, "local", false, "Use only the local parser")
	recsCmd.Flags().IntVarP(&recLimit, "limit", "n", services.DefaultRecommendations, "Number of recommendations")

	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(recsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is an opened backend and engine for one invocation
type session struct {
	backend *database.Backend
	engine  *services.Engine
	logger  *zap.Logger
}

func (s *session) Close() {
	s.backend.Close()
	s.logger.Sync()
}

func openSession(ctx context.Context) (*session, error) {
	godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		cfg.SQLitePath = "voicelist.db"
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	zl, err := logging.New(level, "development")
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	backend, err := database.OpenBackend(ctx, cfg, zl)
	if err != nil {
		return nil, err
	}

	engine, err := services.NewEngine(ctx, cfg, backend, zl)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &session{backend: backend, engine: engine, logger: zl}, nil
}
