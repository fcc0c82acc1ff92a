package main

import (
	"flag"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "admin", "account to reset")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(true)
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}
	if *password == "" {
		*password = cfg.Seed.AdminPassword
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database.DSN(), cfg.Database.LogLevel)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// 3. Find user
	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByUsername(*username)
	if err != nil {
		log.Fatal("user not found", zap.String("username", *username), zap.Error(err))
	}

	// 4. Hash and store the new password
	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}
	if err := userRepo.UpdatePassword(user.ID, hashed.Password); err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}

	log.Info("password reset", zap.String("username", user.Username))
}
