package main

import (
	"context"
	"fmt"

	"github.com/BerniceZTT/case_end/config"
	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db, err := repository.InitPostgres(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repository.ClosePostgres(db)
			return repository.AutoMigrate(db)
		},
	}
}

type createUserFlags struct {
	firstName string
	lastName  string
	email     string
	password  string
	role      string
}

func newCreateUserCommand() *cobra.Command {
	f := &createUserFlags{}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db, err := repository.InitPostgres(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repository.ClosePostgres(db)

			auth := service.NewAuthService(repository.NewUserRepository(db))
			user, err := auth.CreateUser(context.Background(), f.firstName, f.lastName, f.email, f.password, models.UserRole(f.role))
			if err != nil {
				return err
			}
			utils.Logger.Info().Int64("userId", user.ID).Str("email", user.Email).Msg("user account ready")
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email", "", "Login email")
	cmd.Flags().StringVar(&f.password, "password", "", "Initial password")
	cmd.Flags().StringVar(&f.role, "role", string(models.UserRoleCASE_WORKER), "Role: ADMIN, CASE_WORKER or VOLUNTEER")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
