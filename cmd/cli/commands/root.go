package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ougadgets/internal/client"
	"ougadgets/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL     string
	statePath  string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ougadgets",
	Short: "O&U Gadgets storefront and back-office CLI",
	Long: `ougadgets talks to the storefront API and, for operator tasks, directly
to the database.

API commands (phones, compare, login, settings, stats...) keep their state
(session, compare list) in a local state file. Operator commands (migrate,
seed, sessions) read the DATABASE_URL / DB_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("OU_API_URL", "http://localhost:5000"), "Storefront API base URL")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", defaultStatePath(), "Client state file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	if p := os.Getenv("OU_STATE_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ougadgets-state.json"
	}
	return filepath.Join(dir, "ougadgets", "state.json")
}

// newClient loads the state file and returns an API client bound to it.
func newClient() (*client.Client, error) {
	store, err := client.LoadStore(statePath)
	if err != nil {
		return nil, err
	}
	return client.New(apiURL, store)
}

// requireLogin re-validates the saved session before an admin command.
func requireLogin(ctx context.Context, c *client.Client) error {
	if !c.Bootstrap(ctx) {
		return fmt.Errorf("not logged in, run `ougadgets login` first")
	}
	return nil
}

func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return nil, err
	}
	return config.ConnectDB(ctx, dbCfg)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
