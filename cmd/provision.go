package cmd

import (
	"fmt"
	"log"

	"github.com/jovitools/portal/internal/provision"
	provisionPostgres "github.com/jovitools/portal/internal/provision/postgres"
	"github.com/jovitools/portal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	provisionEmail    string
	provisionPassword string
	provisionRole     string
)

// provisionCmd creates or resets a service account out of band, for operators
// bootstrapping an environment before anyone can sign in.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create or reset a service user",
	Long:  `Create a service user with the given credentials, or reset the password and role if the email already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Observability.Env)

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		svc := provision.NewService(provisionPostgres.NewRepository(db), cfg.Security.BCryptCost, logger.L())

		result, err := svc.CreateOrUpdateServiceUser(provision.ProvisionDTO{
			Email:    provisionEmail,
			Password: provisionPassword,
			Role:     provisionRole,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s service user %s (id %s, role %s)\n", result.Status, result.Email, result.UserID, result.Role)
		return nil
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionEmail, "email", "", "service user email")
	provisionCmd.Flags().StringVar(&provisionPassword, "password", "", "service user password")
	provisionCmd.Flags().StringVar(&provisionRole, "role", "member", "service user role (member or admin)")
	_ = provisionCmd.MarkFlagRequired("email")
	_ = provisionCmd.MarkFlagRequired("password")
}
