package database

import (
	"errors"
	"strings"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/config"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.Person{},
		&models.Course{},
		&models.TrainingPath{},
		&models.PathStep{},
		&models.TraineePath{},
		&models.TraineeStepProgress{},
		&models.ActionItem{},
		&models.Meeting{},
		&models.MeetingAttendance{},
		&models.CMECredit{},
		&models.CertificateTemplate{},
		&models.Notification{},
	)
}

// IsDuplicate reports whether err is a unique-constraint violation from the
// driver (gorm translates both the postgres and sqlite error codes).
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
