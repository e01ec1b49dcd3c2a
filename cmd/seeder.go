package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/auth"
	authPostgres "github.com/publica-project/publica/internal/auth/postgres"
	rpDatamodel "github.com/publica-project/publica/internal/core/datamodel/resourcepermission"
	"github.com/publica-project/publica/pkg/logger"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default roles, admin user and permissions",
	Long: `Seed the database with the Public and Admin roles, the configured admin
user and a permissive default rule set: Admin may do everything, Public may
read published content. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			log.Fatalf("failed to open gorm over the db pool: %v", err)
		}

		if err := seed(gormDB, cfg); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("Seeding complete")
	},
}

func seed(db *gorm.DB, cfg *internal.Config) error {
	users := authPostgres.NewUserRepository(db)
	roles := authPostgres.NewRoleRepository(db)

	tokens := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenExpiryDays)
	passwords := auth.NewPasswordHasher(cfg.Security.PBKDF2Iterations)
	authService := auth.NewService(users, roles, tokens, passwords, cfg.Bootstrap, logger.L())

	if _, err := authService.Bootstrap(); err != nil {
		appErr, ok := internal.IsAppError(err)
		if !ok || appErr.Code != internal.ErrCodeAlreadyInitialized {
			return fmt.Errorf("bootstrap roles and admin: %w", err)
		}
		fmt.Println("Roles and admin user already exist; skipping")
	} else {
		fmt.Println("Seeded roles and admin user:", cfg.Bootstrap.AdminEmail)
	}

	admin, err := roles.GetByName("Admin")
	if err != nil {
		return fmt.Errorf("lookup Admin role: %w", err)
	}
	public, err := roles.GetByName("Public")
	if err != nil {
		return fmt.Errorf("lookup Public role: %w", err)
	}

	allMethods := []string{"list", "show", "create", "update", "delete"}
	readMethods := []string{"list", "show"}

	type defaultRule struct {
		resource  string
		adminOnly []string
		public    []string
	}
	rules := []defaultRule{
		{resource: "users", adminOnly: allMethods},
		{resource: "roles", adminOnly: allMethods},
		{resource: "resourcepermissions", adminOnly: allMethods},
		{resource: "mediaobjects", adminOnly: allMethods, public: readMethods},
		{resource: "books", adminOnly: allMethods, public: readMethods},
		{resource: "articles", adminOnly: allMethods, public: readMethods},
	}

	for _, rule := range rules {
		var existing rpDatamodel.ResourcePermission
		err := db.Where("resource_name = ?", rule.resource).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup permission for %s: %w", rule.resource, err)
		}

		publicAllowed := make(map[string]bool, len(rule.public))
		for _, m := range rule.public {
			publicAllowed[m] = true
		}

		record := rpDatamodel.ResourcePermission{
			ResourceName: rule.resource,
			Description:  "Default rule seeded at install time",
		}
		for _, m := range rule.adminOnly {
			method := rpDatamodel.PermissionMethod{
				Name:  m,
				Roles: []rpDatamodel.MethodRole{{RoleID: admin.ID}},
			}
			if publicAllowed[m] {
				method.Roles = append(method.Roles, rpDatamodel.MethodRole{RoleID: public.ID})
			}
			record.Methods = append(record.Methods, method)
		}

		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("seed permission for %s: %w", rule.resource, err)
		}
		fmt.Println("Seeded resource permission:", rule.resource)
	}

	return nil
}
