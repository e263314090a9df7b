package seeders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/config"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the configured admin account unless the username or
// email is already taken.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	svc := services.NewAuthService(repositories.NewStore(db), nil)

	user, err := svc.Register(ctx, services.NewUser{
		Username: config.AdminUsername(),
		Email:    config.AdminEmail(),
		Password: config.AdminPassword(),
		Role:     auth.RoleAdmin,
	})
	if errors.Is(err, services.ErrDuplicateIdentity) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Warn("seeder: default admin created; change its password", "username", user.Username)
	return nil
}
