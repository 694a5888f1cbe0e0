package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/catalog"
	"ougadgets/internal/client"
	"ougadgets/internal/model"

	"github.com/spf13/cobra"
)

var (
	listSearch   string
	listBrand    string
	listMinRAM   int
	listMaxPrice int
	listSort     string
	listFeatured int
	exportOut    string
)

var phonesCmd = &cobra.Command{
	Use:     "phones",
	Aliases: []string{"phone"},
	Short:   "Browse and manage the phone catalog",
}

var phonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List phones, optionally filtered and sorted",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		query := url.Values{}
		flags := cmd.Flags()
		if flags.Changed("search") {
			query.Set("search", listSearch)
		}
		if flags.Changed("brand") {
			query.Set("brand", listBrand)
		}
		if flags.Changed("min-ram") {
			query.Set("minRam", strconv.Itoa(listMinRAM))
		}
		if flags.Changed("max-price") {
			query.Set("maxPrice", strconv.Itoa(listMaxPrice))
		}
		if flags.Changed("sort") {
			query.Set("sortBy", string(catalog.ParseSortBy(listSort)))
		}

		phones, err := c.Phones(cmd.Context(), query)
		if err != nil {
			return err
		}
		if listFeatured > 0 {
			phones = catalog.Featured(phones, listFeatured)
		}
		if jsonOutput {
			return printJSON(phones)
		}
		if len(phones) == 0 {
			output.Info("No phones match your filters")
			return nil
		}
		format := priceFormatter(cmd.Context(), c)
		rows := make([][]string, 0, len(phones))
		for _, p := range phones {
			rows = append(rows, []string{
				p.ID, p.Name, p.Brand,
				fmt.Sprintf("%d/%d GB", p.RAM, p.ROM),
				format(p.OUPrice),
				fmt.Sprintf("%d%%", catalog.DiscountPercent(p.MarketPrice, p.OUPrice)),
				p.Condition,
			})
		}
		output.Table([]string{"ID", "NAME", "BRAND", "RAM/ROM", "PRICE", "OFF", "CONDITION"}, rows)
		output.Muted("%d phone(s)", len(phones))
		return nil
	},
}

var phonesBrandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List the brands in the catalog and the highest price",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		phones, err := c.Phones(cmd.Context(), nil)
		if err != nil {
			return err
		}
		brands := catalog.Brands(phones)
		if jsonOutput {
			return printJSON(map[string]any{"brands": brands, "maxPrice": catalog.MaxOUPrice(phones)})
		}
		for _, b := range brands {
			fmt.Fprintln(output.Out, b)
		}
		output.Muted("Highest price: %s", catalog.FormatNaira(catalog.MaxOUPrice(phones)))
		return nil
	},
}

var phonesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one phone with checkout details and similar phones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		phone, err := c.Phone(ctx, args[0])
		if err != nil {
			if client.IsStatus(err, http.StatusNotFound) {
				return fmt.Errorf("phone %s not found", args[0])
			}
			return err
		}
		if jsonOutput {
			return printJSON(phone)
		}

		settings := model.ParseStoreSettings(loadSettings(ctx, c))
		format := currencyFormatter(settings.Currency)

		output.Section(phone.Name)
		market := ""
		if settings.PriceComparison {
			market = format(phone.MarketPrice)
		}
		fmt.Fprintf(output.Out, "Price:     %s\n", output.Price(format(phone.OUPrice), market))
		if settings.PriceComparison {
			fmt.Fprintf(output.Out, "Jumia:     %s\n", format(phone.JumiaPrice))
			fmt.Fprintf(output.Out, "You save:  %s (%d%%)\n", format(phone.Savings()), catalog.DiscountPercent(phone.MarketPrice, phone.OUPrice))
		}
		fmt.Fprintf(output.Out, "Brand:     %s\n", phone.Brand)
		fmt.Fprintf(output.Out, "Memory:    %d GB RAM, %d GB storage\n", phone.RAM, phone.ROM)
		fmt.Fprintf(output.Out, "Battery:   %d mAh\n", phone.Battery)
		fmt.Fprintf(output.Out, "Cameras:   %d MP main, %d MP front\n", phone.Camera, phone.FrontCamera)
		fmt.Fprintf(output.Out, "Colour:    %s\n", phone.Color)
		fmt.Fprintf(output.Out, "Condition: %s\n", phone.Condition)
		if phone.OS != nil {
			fmt.Fprintf(output.Out, "OS:        %s\n", *phone.OS)
		}
		if phone.SIM != nil {
			fmt.Fprintf(output.Out, "SIM:       %s\n", *phone.SIM)
		}
		if img := phone.PrimaryImage(); img != "" {
			fmt.Fprintf(output.Out, "Image:     %s\n", img)
		}
		if phone.InspectionVideo != nil {
			fmt.Fprintf(output.Out, "Video:     %s\n", *phone.InspectionVideo)
		}
		fmt.Fprintln(output.Out)
		fmt.Fprintln(output.Out, phone.Description)

		output.Section("Buy")
		fmt.Fprintf(output.Out, "Pay by bank transfer, then send your payment evidence to %s:\n", settings.ContactPhone)
		fmt.Fprintln(output.Out, catalog.WhatsAppLink(*phone, format))

		all, err := c.Phones(ctx, nil)
		if err == nil {
			if similar := catalog.Similar(all, *phone, 4); len(similar) > 0 {
				output.Section("Similar phones")
				for _, s := range similar {
					fmt.Fprintf(output.Out, "%s  %s  %s\n", s.ID, s.Name, format(s.OUPrice))
				}
			}
		}
		return nil
	},
}

var phonesCreateCmd = &cobra.Command{
	Use:   "create <file.json>",
	Short: "Create a phone from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var req model.CreatePhoneRequest
		if err := readJSONFile(args[0], &req); err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		phone, err := c.CreatePhone(ctx, req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(phone)
		}
		output.Success("Created %s (%s)", phone.Name, phone.ID)
		return nil
	},
}

var phonesUpdateCmd = &cobra.Command{
	Use:   "update <id> <file.json>",
	Short: "Apply a partial update from a JSON document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var req model.UpdatePhoneRequest
		if err := readJSONFile(args[1], &req); err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		phone, err := c.UpdatePhone(ctx, args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(phone)
		}
		output.Success("Updated %s (%s)", phone.Name, phone.ID)
		return nil
	},
}

var phonesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a phone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		if err := c.DeletePhone(ctx, args[0]); err != nil {
			return err
		}
		c.Store().RemoveFromCompare(args[0])
		output.Success("Deleted phone %s", args[0])
		return nil
	},
}

var phonesImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import phones from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		n, err := c.ImportCSV(ctx, filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		output.Success("Imported %d phone(s)", n)
		return nil
	},
}

var phonesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := c.ExportCSV(ctx, w); err != nil {
			return err
		}
		if exportOut != "" {
			output.Success("Exported catalog to %s", exportOut)
		}
		return nil
	},
}

var phonesTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print an import template",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := io.WriteString(os.Stdout, catalog.CSVTemplate())
		return err
	},
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

// loadSettings returns the stored settings, or none when they cannot be read.
func loadSettings(ctx context.Context, c *client.Client) map[string]string {
	settings, err := c.Settings(ctx)
	if err != nil {
		return map[string]string{}
	}
	return settings
}

func priceFormatter(ctx context.Context, c *client.Client) func(int) string {
	return currencyFormatter(model.ParseStoreSettings(loadSettings(ctx, c)).Currency)
}

func currencyFormatter(currency string) func(int) string {
	if currency == "" || currency == "₦" {
		return catalog.FormatNaira
	}
	return func(n int) string {
		return strings.Replace(catalog.FormatNaira(n), "₦", currency, 1)
	}
}

func init() {
	rootCmd.AddCommand(phonesCmd)
	phonesCmd.AddCommand(phonesListCmd, phonesBrandsCmd, phonesShowCmd, phonesCreateCmd,
		phonesUpdateCmd, phonesDeleteCmd, phonesImportCmd, phonesExportCmd, phonesTemplateCmd)

	phonesListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match name or brand")
	phonesListCmd.Flags().StringVarP(&listBrand, "brand", "b", catalog.AllBrands, "Exact brand")
	phonesListCmd.Flags().IntVar(&listMinRAM, "min-ram", 0, "Minimum RAM in GB")
	phonesListCmd.Flags().IntVar(&listMaxPrice, "max-price", catalog.DefaultMaxPrice, "Maximum O&U price")
	phonesListCmd.Flags().StringVar(&listSort, "sort", string(catalog.SortNewest), "newest, price_asc or price_desc")
	phonesListCmd.Flags().IntVar(&listFeatured, "featured", 0, "Only show the first N phones")

	phonesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
