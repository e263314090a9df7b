package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
)

var newUser services.NewUser

// wardrobe user:create --username u --email e --password p [--role admin]
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			svc := services.NewAuthService(repositories.NewStore(db), nil)
			user, err := svc.Register(cmd.Context(), newUser)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
			return nil
		})
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUser.Username, "username", "", "login name (required)")
	f.StringVar(&newUser.Email, "email", "", "email address (required)")
	f.StringVar(&newUser.Password, "password", "", "password (required)")
	f.StringVar(&newUser.Role, "role", auth.RoleUser, "user or admin")
	userCreateCmd.MarkFlagRequired("username")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")
}
