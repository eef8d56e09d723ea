package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	// IssuerPrefix is the 5-char prefix of every approval number issued by
	// this platform. Numbers without it were imported from the legacy system.
	IssuerPrefix string

	PEAPIBaseURL      string
	PEAPIAuthBaseURL  string
	PEAPIClientID     string
	PEAPIClientSecret string
	PEAPIScope        string
	PEAPITimeoutSecs  int

	SweepLimit   int
	SweepDelayMS int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "pass_iae"),
		MySQLUser: getenv("MYSQL_USER", "pass_iae"),
		MySQLPass: getenv("MYSQL_PASS", "pass_iae"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: getenv("REDIS_PASSWORD", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		IssuerPrefix: getenv("APPROVAL_ISSUER_PREFIX", "99999"),

		PEAPIBaseURL:      getenv("PE_API_BASE_URL", ""),
		PEAPIAuthBaseURL:  getenv("PE_API_AUTH_BASE_URL", ""),
		PEAPIClientID:     getenv("PE_API_CLIENT_ID", ""),
		PEAPIClientSecret: getenv("PE_API_CLIENT_SECRET", ""),
		PEAPIScope:        getenv("PE_API_SCOPE", "passIAE api_maj-pass-iaev1 api_rechercheindividucertifiev1 rechercherIndividuCertifie"),
		PEAPITimeoutSecs:  getenvInt("PE_API_TIMEOUT_SECONDS", 60),

		SweepLimit:   getenvInt("NOTIFY_SWEEP_LIMIT", 100),
		SweepDelayMS: getenvInt("NOTIFY_SWEEP_DELAY_MS", 1000),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.IssuerPrefix) != 5 {
		return fmt.Errorf("APPROVAL_ISSUER_PREFIX must be 5 characters, got %q", c.IssuerPrefix)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATE/DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PEAPITimeout() time.Duration {
	return time.Duration(c.PEAPITimeoutSecs) * time.Second
}

func (c *Config) SweepDelay() time.Duration {
	return time.Duration(c.SweepDelayMS) * time.Millisecond
}
