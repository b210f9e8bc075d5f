package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
)

func newCreateUserCommand(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create-user",
		Short:   "Create a user account",
		Example: "  catalog create-user --name Admin --email admin@example.com --password s3cret! --role admin",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			cfg := load()
			db, err := database.NewDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := auth.NewService(users.NewRepository(db.DB), cfg.Auth, nil)
			defer svc.Close()

			user, err := svc.CreateUser(context.Background(), auth.NewUser{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     entities.UserRole(role),
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q <%s> with id %d\n", user.Role, user.Name, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "login email")
	cmd.Flags().String("password", "", "password, at least 6 characters")
	cmd.Flags().String("role", string(entities.RoleUser), "user or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
