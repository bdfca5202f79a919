package db

import (
	stderrors "errors"

	"taskboard/internal/domain/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// Migration applies all pending migrations from migratePath against the
// database identified by dbStr.
func Migration(dbStr, migratePath string) error {
	if dbStr == "" {
		return errors.ErrEmptyDSN
	}
	if migratePath == "" {
		return errors.ErrEmptyMigratePath
	}

	m, err := migrate.New("file://"+migratePath, dbStr)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise migrations")
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		logrus.WithError(err).Error("failed to apply migrations")
		return err
	}
	return nil
}
