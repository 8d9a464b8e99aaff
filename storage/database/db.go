package database

import (
	"context"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/acadmin/core"
)

// Engines
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite3"
)

var sleepFunc = time.Sleep // mockable

func dataSourceName(conf core.DatabaseConfig) (string, error) {
	switch conf.Engine {
	case EngineMySQL:
		c := mysql.NewConfig()
		c.User = conf.User
		c.Passwd = conf.Password
		c.Net = "tcp"
		c.Addr = conf.Address()
		c.DBName = conf.Name
		if !conf.DisableTLS {
			c.TLSConfig = "true"
		}
		return c.FormatDSN(), nil

	case EnginePostgres:
		sslMode := "require"
		if conf.DisableTLS {
			sslMode = "disable"
		}
		q := make(url.Values)
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")

		u := url.URL{
			Scheme:   conf.Engine,
			User:     url.UserPassword(conf.User, conf.Password),
			Host:     conf.Address(),
			Path:     conf.Name,
			RawQuery: q.Encode(),
		}
		return u.String(), nil

	case EngineSQLite:
		// Name is a file path or ":memory:"
		return conf.Name, nil

	default:
		return "", errors.Errorf("unsupported database engine %q", conf.Engine)
	}
}

// Open returns the session's database handle. The pool is capped at one
// connection so every statement of a session goes over the same connection.
func Open(ctx context.Context, conf core.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := dataSourceName(conf)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(conf.Engine, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := ping(ctx, db, conf.PingAttempts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db core.DB, maxAttempts int) error {
	var err error
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		if attempts < maxAttempts {
			sleepFunc(time.Duration(attempts) * 100 * time.Millisecond)
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}
