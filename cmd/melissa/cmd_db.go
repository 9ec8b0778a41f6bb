package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/database/migrations"
	"github.com/themelissanyc/melissa/database/seeders"
	"github.com/themelissanyc/melissa/pkg/auth"
	"github.com/themelissanyc/melissa/pkg/database"
)

// withDB loads config, opens the database, runs fn, and disconnects.
func withDB(fn func(ctx context.Context, db *mongo.Database) error) error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	return fn(ctx, db)
}

// melissa migrate — ensure collection indexes.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the MongoDB indexes the API queries against",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *mongo.Database) error {
			fmt.Println("Ensuring indexes…")
			return migrations.Run(ctx, db)
		})
	},
}

// melissa seed — insert launch data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *mongo.Database) error {
			fmt.Println("Running seeders…")
			return seeders.RunAll(ctx, db)
		})
	},
}

// melissa admin:create — provision an admin account. Registration over the
// API only ever grants the "user" role, so this is the one path to admin.
var adminCreateCmd = &cobra.Command{
	Use:   "admin:create <username> <email> <password>",
	Short: "Create an admin account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email, password := args[0], args[1], args[2]

		return withDB(func(ctx context.Context, db *mongo.Database) error {
			users := repositories.NewMongoUserRepository(db)

			if existing, err := users.FindByUsernameOrEmail(ctx, username, email); err == nil && existing != nil {
				return fmt.Errorf("an account with that username or email already exists")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user := &models.User{
				Username: username,
				Email:    email,
				Password: hash,
				Role:     models.RoleAdmin,
			}
			if err := users.Create(ctx, user); err != nil {
				return err
			}

			fmt.Printf("Admin account created: %s <%s>\n", username, email)
			return nil
		})
	},
}
