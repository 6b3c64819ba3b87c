package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gims/internal/config"
	"gims/internal/domain/auth"
	"gims/internal/infrastructure/storage/postgres"
	"gims/internal/infrastructure/storage/postgres/auth_repo"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

// create-admin bootstraps the first account. Regular registration is
// admin-only through the API, so a fresh install needs this once.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		txManager := postgres.NewTxManager(pool)
		userRepo := auth_repo.NewUserRepo(txManager)

		jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
		authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

		user, err := authService.Register(ctx, adminEmail, adminPassword, adminName, "admin")
		if err != nil {
			return err
		}

		user.IsAdmin = true
		if err := userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("grant admin: %w", err)
		}

		fmt.Printf("admin account created: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
