package commands

import (
	"fmt"
	"sort"
	"strings"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/model"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change platform settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show settings, filling unset keys with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		stored, err := c.Settings(cmd.Context())
		if err != nil {
			return err
		}
		effective := model.ParseStoreSettings(stored).Map()
		for k, v := range stored {
			if _, known := effective[k]; !known {
				effective[k] = v
			}
		}
		if jsonOutput {
			return printJSON(effective)
		}
		printSettings(effective, stored)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Upsert one or more settings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string, len(args))
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return fmt.Errorf("invalid setting %q, expected key=value", arg)
			}
			values[strings.TrimSpace(key)] = value
		}

		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		updated, err := c.UpdateSettings(ctx, values)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(updated)
		}
		output.Success("Saved %d setting(s)", len(values))
		printSettings(updated, updated)
		return nil
	},
}

func printSettings(values, stored map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		source := "stored"
		if _, ok := stored[k]; !ok {
			source = "default"
		}
		rows = append(rows, []string{k, values[k], source})
	}
	output.Table([]string{"KEY", "VALUE", "SOURCE"}, rows)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
}
