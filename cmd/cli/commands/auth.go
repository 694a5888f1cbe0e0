package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"ougadgets/cmd/cli/output"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the back-office",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		password := loginPassword
		if password == "" {
			password = os.Getenv("OU_PASSWORD")
		}
		if password == "" {
			if password, err = promptLine("Password: "); err != nil {
				return err
			}
		}

		admin, err := c.Login(cmd.Context(), loginUsername, password)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(admin)
		}
		output.Success("Logged in as %s (%s)", admin.Username, admin.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the back-office session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Logout(cmd.Context()); err != nil {
			output.Warning("Server logout failed, local session cleared anyway: %v", err)
			return nil
		}
		output.Success("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the saved session is still valid",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ok := c.Bootstrap(cmd.Context())
		state := c.Store().Snapshot()
		if jsonOutput {
			return printJSON(map[string]any{"authenticated": ok, "admin": state.Admin})
		}
		if !ok {
			output.Info("Not logged in")
			return nil
		}
		if state.Admin != nil {
			output.Success("Logged in as %s <%s> (%s)", state.Admin.Username, state.Admin.Email, state.Admin.Role)
		} else {
			output.Success("Logged in")
		}
		return nil
	},
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return "", errors.New("no input")
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "oanduadmin", "Admin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Admin password (default $OU_PASSWORD, else prompt)")
}
