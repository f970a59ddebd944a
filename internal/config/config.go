package config // package config loads application configuration from environment variables

import (
    "fmt"     // fmt formats the missing-variable report
    "os"      // os provides access to environment variables
    "strings" // strings joins the list of missing keys
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are collected by Load and a
// single error lists every one that is absent, so a misconfigured process
// stops before it opens a socket.
type Config struct {
    Env         string // application environment (e.g. "dev", "prod")
    Port        string // HTTP port to listen on
    DBUser      string // database username
    DBPass      string // database password (optional)
    DBHost      string // database host address
    DBPort      string // database port number
    DBName      string // database name
    JWTSecret   string // secret used to sign JWTs
    TokenTTLMin int    // access token time-to-live in minutes
    BcryptCost  int    // bcrypt cost for password hashing
    LogLevel    string // DEBUG | INFO | WARN | ERROR
    LogFormat   string // text | json
    CORSOrigins []string
    RabbitURL   string // broker URL for booking events (empty disables publishing)

    BookingConsumerEnabled bool   // run the booking.* log consumer in-process
    BookingLogDir          string // directory for booking.log written by the consumer

    Upload UploadConfig
}

// UploadConfig controls where avatars are stored and how large they may be.
type UploadConfig struct {
    Dir      string // permanent storage for uploaded images
    MaxBytes int64  // maximum accepted file size
}

// Load reads configuration values from environment variables.  Missing
// required variables are reported together in the returned error; there is
// no fallback for JWT_SECRET.
func Load() (Config, error) {
    var missing []string
    must := func(key string) string {
        v, ok := os.LookupEnv(key)
        if !ok || strings.TrimSpace(v) == "" {
            missing = append(missing, key)
        }
        return v
    }

    cfg := Config{
        Env:         getenv("APP_ENV", "dev"),
        Port:        must("APP_PORT"),
        DBUser:      must("DB_USER"),
        DBPass:      os.Getenv("DB_PASS"),
        DBHost:      must("DB_HOST"),
        DBPort:      must("DB_PORT"),
        DBName:      must("DB_NAME"),
        JWTSecret:   must("JWT_SECRET"),
        TokenTTLMin: envInt("TOKEN_TTL_MIN", 60),
        BcryptCost:  envInt("BCRYPT_COST", 10),
        LogLevel:    getenv("LOG_LEVEL", "INFO"),
        LogFormat:   getenv("LOG_FORMAT", "text"),
        CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
        RabbitURL:   os.Getenv("RABBITMQ_URL"),

        BookingConsumerEnabled: envBool("BOOKING_CONSUMER_ENABLED", false),
        BookingLogDir:          getenv("BOOKING_LOG_DIR", "logs"),

        Upload: UploadConfig{
            Dir:      getenv("UPLOAD_DIR", "./public/images"),
            MaxBytes: int64(envInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
        },
    }
    if len(missing) > 0 {
        return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }
    if cfg.TokenTTLMin <= 0 {
        return Config{}, fmt.Errorf("invalid TOKEN_TTL_MIN: %d", cfg.TokenTTLMin)
    }
    if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
        return Config{}, fmt.Errorf("invalid BCRYPT_COST: %d", cfg.BcryptCost)
    }
    if cfg.Upload.MaxBytes <= 0 {
        cfg.Upload.MaxBytes = 5 * 1024 * 1024
    }
    return cfg, nil
}
