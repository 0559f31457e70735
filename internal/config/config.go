package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits list-valued variables
    "time"    // time parses duration-valued variables

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// timers that drive failover, rotation and lock polling.
type Config struct {
    Env                string        // application environment (e.g. "dev", "prod")
    Port               string        // HTTP port to listen on
    DBUser             string        // database username (primary channel)
    DBPass             string        // database password (optional)
    DBHost             string        // database host address
    DBPort             string        // database port number
    DBName             string        // database name
    DBMaxOpenConns     int           // connection pool upper bound
    DBMaxIdleConns     int           // idle connections kept in the pool
    DBConnMaxLifetime  time.Duration // recycle age for pooled connections
    JWTSecret          string        // secret used to sign session and bypass tokens
    BcryptCost         int           // bcrypt cost for mode password hashing
    SecondaryEndpoints []string      // base URLs of secondary channel replicas
    RequestTimeout     time.Duration // per-call timeout for channel operations
    RotationInterval   time.Duration // elapsed time before the rotator advances
    LockPollInterval   time.Duration // how often the system lock flag is refreshed
    SweepInterval      time.Duration // how often the failover sweep runs
    FailoverStaleAfter time.Duration // inactivity after which a fallback episode is considered stale
    MaxSeatsPerRequest int           // upper bound on seats in a single reservation request
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first so local
// development does not require exporting variables.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message; timer values fall back to the documented defaults.
func Load() Config {
    _ = godotenv.Load() // absent .env is not an error

    return Config{
        Env:                must("APP_ENV"),      // environment (dev/test/prod)
        Port:               must("APP_PORT"),     // port to bind the HTTP server
        DBUser:             must("DB_USER"),      // database user
        DBPass:             os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:             must("DB_HOST"),      // database host
        DBPort:             must("DB_PORT"),      // database port
        DBName:             must("DB_NAME"),      // database name
        DBMaxOpenConns:     atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
        DBMaxIdleConns:     atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
        DBConnMaxLifetime:  parseDur(getenv("DB_CONN_MAX_LIFETIME", "30m")),
        JWTSecret:          must("JWT_SECRET"),   // secret used for signing tokens
        BcryptCost:         mustInt("BCRYPT_COST"),
        SecondaryEndpoints: parseList(os.Getenv("SECONDARY_ENDPOINTS")),
        RequestTimeout:     parseDur(getenv("REQUEST_TIMEOUT", "5s")),
        RotationInterval:   parseDur(getenv("ROTATION_INTERVAL", "5m")),
        LockPollInterval:   parseDur(getenv("LOCK_POLL_INTERVAL", "30s")),
        SweepInterval:      parseDur(getenv("SWEEP_INTERVAL", "5m")),
        FailoverStaleAfter: parseDur(getenv("FAILOVER_STALE_AFTER", "1h")),
        MaxSeatsPerRequest: atoi(getenv("MAX_SEATS_PER_REQUEST", "5")),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// getenv returns the value of key or def when the variable is unset or empty.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// atoi converts s to an int, returning zero on failure.  Only used for
// optional variables whose defaults are supplied by getenv.
func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

// parseDur parses a Go duration string, falling back to one second when the
// value is malformed rather than halting startup over an optional setting.
func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}

// parseList splits a comma-separated variable into trimmed, non-empty items.
func parseList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
