package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/router"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"
	"go-inventory-api/pkg/mailer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.New(cfg.IsDevelopment())
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database.DSN(), cfg.Database.LogLevel)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database connected and migrated")

	// 3. Seed the first admin
	seedAdmin(db, cfg.Seed, log)

	// 4. Setup WebSocket Hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	var mail mailer.Mailer
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		mail = mailer.NewLogMailer(log)
	}

	// 5. Setup Fiber
	app := router.New(router.Deps{
		DB:          db,
		Tokens:      jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		Mailer:      mail,
		Hub:         wsHub,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   true,
	})

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// seedAdmin creates the configured Admin account on an empty user table
func seedAdmin(db *gorm.DB, seed config.SeedConfig, log *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	_, err := userRepo.FindByUsername(seed.AdminUsername)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("failed to look up admin user", zap.Error(err))
		return
	}

	admin := &model.User{
		Username:  seed.AdminUsername,
		Email:     seed.AdminEmail,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      model.RoleAdmin,
		IsActive:  true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(seed.AdminPassword); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("username", admin.Username))
}
