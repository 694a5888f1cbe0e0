package commands

import (
	"ougadgets/cmd/cli/output"
	"ougadgets/internal/catalog"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Manage the local compare list (up to 4 phones)",
}

var compareAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add phones to the compare list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		store := c.Store()
		for _, id := range args {
			phone, err := c.Phone(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !store.AddToCompare(*phone) {
				output.Warning("%s not added (already listed or list full)", phone.Name)
				continue
			}
			output.Success("Added %s", phone.Name)
		}
		output.Muted("%d/%d phones in the compare list", len(store.CompareItems()), catalog.MaxCompare)
		return nil
	},
}

var compareRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a phone from the compare list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if c.Store().RemoveFromCompare(args[0]) {
			output.Success("Removed %s", args[0])
		} else {
			output.Info("%s is not in the compare list", args[0])
		}
		return nil
	},
}

var compareClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the compare list",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		c.Store().ClearCompare()
		output.Success("Compare list cleared")
		return nil
	},
}

var compareShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the compare table",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		state := c.Store().Snapshot()
		if jsonOutput {
			return printJSON(state.Compare.Items())
		}
		if state.Compare.Len() == 0 {
			output.Info("No phones to compare")
			return nil
		}

		items := state.Compare.Items()
		headers := []string{""}
		prices := []string{"O&U Price"}
		for _, p := range items {
			headers = append(headers, p.Name)
			prices = append(prices, catalog.FormatNaira(p.OUPrice))
		}
		rows := [][]string{prices}
		for _, r := range catalog.CompareRows(&state.Compare) {
			rows = append(rows, append([]string{r.Label}, r.Values...))
		}
		output.Table(headers, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.AddCommand(compareAddCmd, compareRemoveCmd, compareClearCmd, compareShowCmd)
}
