// Seeds the initial admin user so a fresh deployment has someone able to
// manage events and roles. Idempotent: an existing account is left alone.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/config"
	"github.com/eventdesk/backend/database"
	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/security"
	"github.com/eventdesk/backend/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if email == "" || password == "" {
		logrus.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if name == "" {
		name = "Administrator"
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	users := store.NewGormUserStore(db)
	if _, err := users.FindByEmail(email); err == nil {
		logrus.WithField("email", email).Info("admin user already exists")
		return
	}

	hash, err := security.NewHasher().Hash(password)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}

	admin := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(&admin); err != nil {
		logrus.WithError(err).Fatal("failed to create admin user")
	}

	logrus.WithField("email", email).Info("admin user seeded")
}
