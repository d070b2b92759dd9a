// Package database builds connections to the corpus database.
//
// A connection is described by a descriptor of the form
//
//	mysql://<user>[:<password>]@<host>:<port>/<database>
//
// which is translated into a go-sql-driver/mysql DSN when the handle is
// opened.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/JonMunkholm/corpusimport/internal/config"
)

// Driver is the descriptor scheme and database/sql driver name.
const Driver = "mysql"

// DefaultPort is used when a descriptor omits the port.
const DefaultPort = 3306

// Params holds everything needed to reach the corpus database.
type Params struct {
	Host     string
	User     string
	Password string // optional
	Port     int
	Name     string
	Timeout  time.Duration // dial timeout, zero for driver default
}

// FromConfig returns the connection parameters described by cfg. A non-empty
// cfg.URL takes precedence over the individual fields.
func FromConfig(cfg config.DatabaseConfig) (Params, error) {
	if cfg.URL != "" {
		p, err := ParseURL(cfg.URL)
		if err != nil {
			return Params{}, err
		}
		p.Timeout = cfg.Timeout
		return p, nil
	}
	return Params{
		Host:     cfg.Host,
		User:     cfg.User,
		Password: cfg.Password,
		Port:     cfg.Port,
		Name:     cfg.Name,
		Timeout:  cfg.Timeout,
	}, nil
}

// ParseURL parses a mysql:// descriptor. Driver-qualified schemes such as
// mysql+pymysql are accepted. A missing port defaults to 3306.
func ParseURL(raw string) (Params, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Params{}, fmt.Errorf("parse database url: %w", err)
	}

	scheme, _, _ := strings.Cut(u.Scheme, "+")
	if scheme != Driver {
		return Params{}, fmt.Errorf("parse database url: unsupported scheme %q", u.Scheme)
	}

	p := Params{
		Host: u.Hostname(),
		Name: strings.TrimPrefix(u.Path, "/"),
		Port: DefaultPort,
	}
	if u.User != nil {
		p.User = u.User.Username()
		p.Password, _ = u.User.Password()
	}
	if port := u.Port(); port != "" {
		p.Port, err = strconv.Atoi(port)
		if err != nil {
			return Params{}, fmt.Errorf("parse database url: invalid port %q", port)
		}
	}

	if p.Host == "" {
		return Params{}, fmt.Errorf("parse database url: missing host")
	}
	if p.Name == "" {
		return Params{}, fmt.Errorf("parse database url: missing database name")
	}

	return p, nil
}

// Addr returns host:port.
func (p Params) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func (p Params) url() *url.URL {
	u := &url.URL{
		Scheme: Driver,
		Host:   p.Addr(),
		Path:   "/" + p.Name,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	return u
}

// URL returns the connection descriptor. The password is included only
// when set.
func (p Params) URL() string {
	return p.url().String()
}

// Redacted returns the descriptor with the password masked, for logs.
func (p Params) Redacted() string {
	return p.url().Redacted()
}

// DriverConfig translates the parameters into a go-sql-driver/mysql config.
func (p Params) DriverConfig() *mysql.Config {
	c := mysql.NewConfig()
	c.User = p.User
	c.Passwd = p.Password
	c.Net = "tcp"
	c.Addr = p.Addr()
	c.DBName = p.Name
	if p.Timeout > 0 {
		c.Timeout = p.Timeout
	}
	return c
}

// DSN returns the driver DSN, e.g. root@tcp(localhost:3306)/elia.
func (p Params) DSN() string {
	return p.DriverConfig().FormatDSN()
}

// Open returns a live handle to the database described by p. The
// connection is verified with a ping; no retries are attempted.
func Open(ctx context.Context, p Params) (*sql.DB, error) {
	connector, err := mysql.NewConnector(p.DriverConfig())
	if err != nil {
		return nil, fmt.Errorf("database config %s: %w", p.Redacted(), err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", p.Redacted(), err)
	}

	return db, nil
}
