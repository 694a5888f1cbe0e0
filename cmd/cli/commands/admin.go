package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/catalog"
	"ougadgets/internal/model"

	"github.com/spf13/cobra"
)

var (
	statsLocal bool

	profileName  string
	profileEmail string
	profilePhone string

	currentPassword string
	newPassword     string
	confirmPassword string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}

		var stats *model.DashboardStats
		if statsLocal {
			phones, err := c.Phones(ctx, nil)
			if err != nil {
				return err
			}
			computed := catalog.ComputeStats(phones)
			stats = &computed
		} else {
			if err := requireLogin(ctx, c); err != nil {
				return err
			}
			if stats, err = c.Stats(ctx); err != nil {
				return err
			}
		}
		if jsonOutput {
			return printJSON(stats)
		}
		output.Section("Dashboard")
		fmt.Fprintf(output.Out, "Total phones:      %d\n", stats.TotalPhones)
		fmt.Fprintf(output.Out, "Inventory value:   %s\n", catalog.FormatNaira(int(stats.InventoryValue)))
		fmt.Fprintf(output.Out, "Customer savings:  %s\n", catalog.FormatNaira(int(stats.CustomerSavings)))
		fmt.Fprintf(output.Out, "Brands:            %d\n", stats.Brands)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your admin profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		admin, err := c.Profile(ctx)
		if err != nil {
			return err
		}
		return printProfile(admin)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change name, email or phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req model.UpdateProfileRequest
		flags := cmd.Flags()
		if flags.Changed("name") {
			req.Name = &profileName
		}
		if flags.Changed("email") {
			req.Email = &profileEmail
		}
		if flags.Changed("phone") {
			req.Phone = &profilePhone
		}
		if req.Empty() {
			return fmt.Errorf("nothing to update, pass --name, --email or --phone")
		}

		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		admin, err := c.UpdateProfile(ctx, req)
		if err != nil {
			return err
		}
		output.Success("Profile updated")
		return printProfile(admin)
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireLogin(ctx, c); err != nil {
			return err
		}
		err = c.ChangePassword(ctx, model.ChangePasswordRequest{
			CurrentPassword: currentPassword,
			NewPassword:     newPassword,
			ConfirmPassword: confirmPassword,
		})
		if err != nil {
			return err
		}
		output.Success("Password changed")
		return nil
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image>",
	Short: "Upload a new avatar (jpeg, png, gif or webp, up to 5 MB)",
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
		admin, err := c.UploadAvatar(ctx, filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		output.Success("Avatar updated")
		return printProfile(admin)
	},
}

func printProfile(admin *model.AdminUser) error {
	if jsonOutput {
		return printJSON(admin)
	}
	output.Section(admin.Name)
	fmt.Fprintf(output.Out, "Username:    %s\n", admin.Username)
	fmt.Fprintf(output.Out, "Email:       %s\n", admin.Email)
	fmt.Fprintf(output.Out, "Role:        %s\n", admin.Role)
	if admin.Phone != nil {
		fmt.Fprintf(output.Out, "Phone:       %s\n", *admin.Phone)
	}
	if admin.Avatar != nil {
		fmt.Fprintf(output.Out, "Avatar:      %s\n", *admin.Avatar)
	}
	fmt.Fprintf(output.Out, "Joined:      %s\n", admin.JoinedDate.Format("2 Jan 2006"))
	fmt.Fprintf(output.Out, "Last active: %s\n", admin.LastActive.Format("2 Jan 2006 15:04"))
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd, profileCmd)
	profileCmd.AddCommand(profileUpdateCmd, profilePasswordCmd, profileAvatarCmd)

	statsCmd.Flags().BoolVar(&statsLocal, "local", false, "Compute from the public catalog instead of the admin endpoint")

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "Email address")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone number")

	profilePasswordCmd.Flags().StringVar(&currentPassword, "current", "", "Current password")
	profilePasswordCmd.Flags().StringVar(&newPassword, "new", "", "New password (at least 8 characters)")
	profilePasswordCmd.Flags().StringVar(&confirmPassword, "confirm", "", "Repeat the new password")
	_ = profilePasswordCmd.MarkFlagRequired("current")
	_ = profilePasswordCmd.MarkFlagRequired("new")
	_ = profilePasswordCmd.MarkFlagRequired("confirm")
}
