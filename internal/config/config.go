package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.  Token lifetimes are expressed in hours because the access
// token's validity window is reported to clients as expiresIn seconds
// (hours * 3600).
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    JWTSecret       string // symmetric key used to sign and verify JWTs (HS512)
    AccessTTLHours  int    // access token time-to-live in hours
    RefreshTTLHours int    // refresh token time-to-live in hours
    BcryptCost      int    // bcrypt cost for password hashing
    UploadDir       string // directory where uploaded song files are stored
    SMTPHost        string // SMTP relay host for outbound mail (optional)
    SMTPPort        string // SMTP relay port
    SMTPUser        string // SMTP auth username
    SMTPPass        string // SMTP auth password
    SMTPFrom        string // sender address for outbound mail
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Mail settings are
// optional: when SMTP_HOST is unset the mail consumer logs messages
// instead of delivering them.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"),
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        AccessTTLHours:  mustInt("ACCESS_TOKEN_TTL_HOURS"),
        RefreshTTLHours: mustInt("REFRESH_TOKEN_TTL_HOURS"),
        BcryptCost:      mustInt("BCRYPT_COST"),
        UploadDir:       envStr("UPLOAD_DIR", "uploads"),
        SMTPHost:        os.Getenv("SMTP_HOST"),
        SMTPPort:        envStr("SMTP_PORT", "587"),
        SMTPUser:        os.Getenv("SMTP_USER"),
        SMTPPass:        os.Getenv("SMTP_PASS"),
        SMTPFrom:        envStr("SMTP_FROM", "no-reply@music-manager.local"),
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
