package cmd

import (
	"errors"
	"fmt"
	"log"

	"photofolio/config"
	"photofolio/core/auth"
	"photofolio/db"
	"photofolio/model"
	"photofolio/repository"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Provision the admin account",
	Long:  `Creates the administrative account used by the admin console. The credential is provisioned out of band; there is no registration endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		if adminUsername == "" || adminPassword == "" {
			log.Fatal("both --username and --password are required")
		}

		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(cfg); err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		adminRepo := repository.NewMySQLAdminRepository(db.DB)
		id, err := adminRepo.CreateAdmin(&model.Admin{
			Username:     adminUsername,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateAdmin) {
				log.Fatalf("admin %q already exists", adminUsername)
			}
			log.Fatalf("failed to create admin: %v", err)
		}

		fmt.Printf("Admin %q created with ID %d\n", adminUsername, id)
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "admin username")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "admin password")
}
