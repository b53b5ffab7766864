package db

import (
	"github.com/pkg/errors"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/store"
	"github.com/edupath/mentor/store/db/postgres"
	"github.com/edupath/mentor/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default and is sufficient for single-process deployments.
// PostgreSQL is for deployments that need concurrent writers or an external
// database.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
