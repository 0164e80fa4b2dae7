package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	Project            string
	NATSEnabled        bool
	NATSURL            string
	NATSSubjectPrefix  string
	NATSRequestSubject string
	LogNATSSubjects    bool
	HTTPAddr           string
	CORSOrigins        []string
	RefreshInterval    time.Duration
	LogRemaps          bool
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	// Network database: DATABASE_URL / PG_DSN / SQLITE_DATABASE, else build from PG* vars
	dsn := firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("PG_DSN"),
		os.Getenv("SQLITE_DATABASE"),
	)
	if dsn == "" {
		host := getenvDefault("PGHOST", "127.0.0.1")
		port := getenvDefault("PGPORT", "5432")
		user := getenvDefault("PGUSER", "postgres")
		pass := os.Getenv("PGPASSWORD")
		db := os.Getenv("PGDATABASE")
		// With PROJECT the variant database is resolved from the 'postgres' meta database.
		if db == "" && os.Getenv("PROJECT") != "" {
			db = "postgres"
		}
		if db == "" {
			return nil, errors.New("DATABASE_URL, SQLITE_DATABASE or PGDATABASE must be set (set PGDATABASE=postgres when using PROJECT)")
		}
		sslmode := getenvDefault("PGSSLMODE", "disable")
		if pass != "" {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode)
		} else {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode)
		}
	} else {
		cfg.DatabaseURL = dsn
	}

	cfg.Project = firstNonEmpty(os.Getenv("PROJECT"), os.Getenv("PROJECT_NAME"))

	cfg.NATSEnabled = true
	if v := os.Getenv("NATS_ENABLED"); v != "" {
		cfg.NATSEnabled = parseBool(v)
	}
	cfg.NATSURL = getenvDefault("NATS_URL", "nats://127.0.0.1:4222")
	cfg.NATSSubjectPrefix = getenvDefault("NATS_SUBJECT_PREFIX", "sections")
	cfg.NATSRequestSubject = getenvDefault("NATS_REQUEST_SUBJECT", "sections.present")
	cfg.LogNATSSubjects = parseBool(os.Getenv("LOG_NATS_SUBJECTS"))

	// HTTP listen address for the API and /metrics. Empty disables the server.
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8080")
	if strings.EqualFold(strings.TrimSpace(cfg.HTTPAddr), "off") {
		cfg.HTTPAddr = ""
	}

	cfg.CORSOrigins = []string{"http://localhost:4200"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	// Network refresh interval (seconds)
	if v := os.Getenv("NETWORK_REFRESH_INTERVAL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid NETWORK_REFRESH_INTERVAL_SEC: %q", v)
		}
		cfg.RefreshInterval = time.Duration(sec) * time.Second
	} else {
		cfg.RefreshInterval = 60 * time.Second
	}

	cfg.LogRemaps = parseBool(os.Getenv("LOG_REMAPS"))

	return cfg, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}
