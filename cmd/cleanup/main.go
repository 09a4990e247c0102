// Removes uploaded images that no event references anymore. Updates that
// replace an image leave the old file on disk; this reclaims the space.
package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/config"
	"github.com/eventdesk/backend/database"
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

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	urls, err := store.NewGormEventStore(db).ImageURLs()
	if err != nil {
		logrus.WithError(err).Fatal("failed to list image URLs")
	}

	// Referenced filenames, keyed by base name.
	referenced := make(map[string]bool, len(urls))
	for _, url := range urls {
		referenced[filepath.Base(url)] = true
	}

	imagesDir := filepath.Join(cfg.StaticDir, "images")
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("dir", imagesDir).Info("no images directory, nothing to clean")
			return
		}
		logrus.WithError(err).Fatal("failed to read images directory")
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		path := filepath.Join(imagesDir, entry.Name())
		if err := os.Remove(path); err != nil {
			logrus.WithError(err).WithField("file", path).Warn("failed to remove orphaned image")
			continue
		}
		removed++
	}

	logrus.WithFields(logrus.Fields{
		"scanned": len(entries),
		"removed": removed,
	}).Info("cleanup finished")
}
