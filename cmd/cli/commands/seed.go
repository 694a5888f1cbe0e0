package commands

import (
	"errors"
	"fmt"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/model"
	"ougadgets/internal/repository"
	"ougadgets/internal/service"

	"github.com/spf13/cobra"
)

const defaultAdminPassword = "admin@ougadgets.com"

var (
	seedUsername string
	seedEmail    string
	seedName     string
	seedPassword string
	seedRole     string
	seedPhone    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin user and default settings",
	Long: `Creates the back-office admin account if the username is free and stores
any default setting that has never been saved. Running it twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		password := seedPassword
		if password == "" {
			password = envOr("ADMIN_PASSWORD", defaultAdminPassword)
		}
		if password == defaultAdminPassword {
			output.Warning("Using the default admin password, change it after the first login")
		}

		auth := service.NewAuthService(repository.NewAdminUserRepository(pool))
		var phone *string
		if seedPhone != "" {
			phone = &seedPhone
		}
		admin, err := auth.CreateAdmin(ctx, model.CreateAdminUserRequest{
			Username: seedUsername,
			Email:    seedEmail,
			Password: password,
			Name:     seedName,
			Role:     seedRole,
			Phone:    phone,
		})
		switch {
		case errors.Is(err, service.ErrAdminExists):
			output.Info("Admin user %q already exists, skipping", seedUsername)
		case err != nil:
			return fmt.Errorf("failed to create admin user: %w", err)
		default:
			output.Success("Admin user created (username: %s, role: %s)", admin.Username, admin.Role)
		}

		settings := repository.NewSettingRepository(pool)
		stored, err := settings.FindAll(ctx)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(stored))
		for _, s := range stored {
			have[s.Key] = true
		}
		added := 0
		for key, value := range model.DefaultSettings() {
			if have[key] {
				continue
			}
			if _, err := settings.Upsert(ctx, key, value); err != nil {
				return fmt.Errorf("failed to seed setting %s: %w", key, err)
			}
			added++
		}
		output.Success("Database seeding complete (%d default settings added)", added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedUsername, "username", "oanduadmin", "Admin username")
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@ougadgets.com", "Admin email")
	seedCmd.Flags().StringVar(&seedName, "name", "Admin User", "Admin display name")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "Admin password (default $ADMIN_PASSWORD)")
	seedCmd.Flags().StringVar(&seedRole, "role", string(model.RoleAdmin), "Admin role (admin, manager, staff)")
	seedCmd.Flags().StringVar(&seedPhone, "phone", "+234 800 000 0000", "Admin phone number")
}
