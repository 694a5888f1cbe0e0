package commands

import (
	"ougadgets/cmd/cli/output"
	"ougadgets/internal/repository"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage server-side admin sessions",
}

var sessionsReapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete expired sessions now",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := repository.NewSessionRepository(pool).DeleteExpired(ctx)
		if err != nil {
			return err
		}
		output.Success("Deleted %d expired session(s)", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsReapCmd)
}
