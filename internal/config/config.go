package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MongoURI string
	MongoDB  string

	// Outbox journal: "sqlite" (default) or "mysql".
	OutboxDriver string
	SQLitePath   string
	MySQLHost    string
	MySQLPort    string
	MySQLDB      string
	MySQLUser    string
	MySQLPass    string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// RejectOverpayment flips the ledger from clamp-and-accept to rejecting
	// payments above the remaining balance.
	RejectOverpayment bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	c := &Config{
		AppPort: getenv("APP_PORT", "8080"),

		MongoURI: getenv("MONGO_URI", "mongodb://mongo:27017"),
		MongoDB:  getenv("MONGO_DB", "kahawa"),

		OutboxDriver: getenv("OUTBOX_DRIVER", "sqlite"),
		SQLitePath:   getenv("OUTBOX_SQLITE_PATH", "outbox.db"),
		MySQLHost:    getenv("MYSQL_HOST", "mysql"),
		MySQLPort:    getenv("MYSQL_PORT", "3306"),
		MySQLDB:      getenv("MYSQL_DB", "kahawa"),
		MySQLUser:    getenv("MYSQL_USER", "kahawa"),
		MySQLPass:    getenv("MYSQL_PASS", "kahawa"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("LEDGER_REJECT_OVERPAYMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RejectOverpayment = b
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.MongoURI == "" || c.MongoDB == "" {
		return errors.New("missing Mongo config (MONGO_URI/MONGO_DB)")
	}
	switch c.OutboxDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing OUTBOX_SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown OUTBOX_DRIVER %q", c.OutboxDriver)
	}
	return nil
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, net.JoinHostPort(c.MySQLHost, c.MySQLPort), c.MySQLDB)
}
