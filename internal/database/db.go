package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Pool sizing for the scheduling workload: a pass runs sequentially and
// holds few connections, but its transactions (retraction, assignment
// inserts under the session lock) can be long; browse traffic is
// read-mostly and served largely from the response cache.
const (
	maxOpenConns    = 16
	maxIdleConns    = 4
	connMaxLifetime = 15 * time.Minute
)

// dsn builds the driver DSN.  parseTime maps DATE/DATETIME columns onto
// time.Time and the UTC location keeps week arithmetic timezone-free, the
// same convention NormalizeWeekStart applies on the way in.
func dsn(user, pass, host, port, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL, applies the pool limits and verifies the
// connection before handing the handle out.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
