package cli

import (
	"fmt"

	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/config"
	"github.com/lazypower/cadence/internal/store"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local user accounts",
}

var userCreateEmail string
var userCreatePassword string
var userCreateName string

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account directly in the local database",
	RunE:  runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "account email (required)")
	userCreateCmd.Flags().StringVar(&userCreatePassword, "password", "", "account password (required, min 8 chars)")
	userCreateCmd.Flags().StringVar(&userCreateName, "name", "", "display name")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	if len(userCreatePassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg := config.FromEnv()
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(userCreatePassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := db.CreateUser(userCreateEmail, hash, userCreateName)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
	return nil
}
