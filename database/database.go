package database

import (
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Open connects to the SQLite file at url and brings its schema up to date.
func Open(url string) (db *sqlx.DB, err error) {
	db, err = sqlx.Open("sqlite3", dsn(url))
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	err = db.Ping()
	if err != nil {
		return nil, closeOnError(db, errors.Wrap(err, "ping"))
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db.DB)
	if err != nil {
		return nil, closeOnError(db, errors.Wrap(err, "migrate"))
	}

	return db, nil
}

// dsn adds the connection options to url. They go in the DSN so that every
// pooled connection gets them.
func dsn(url string) string {
	const options = "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	if strings.Contains(url, "?") {
		return url + "&" + options
	}
	return url + "?" + options
}

func closeOnError(db *sqlx.DB, err error) error {
	if cerr := db.Close(); cerr != nil {
		return multierror.Append(err, cerr)
	}
	return err
}
