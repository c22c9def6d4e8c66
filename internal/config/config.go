package config // package config loads application configuration from environment variables

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
    DriverMySQL  = "mysql"
    DriverMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
    Env             string        // application environment (dev, test, prod)
    Port            string        // HTTP port to listen on
    LogLevel        string        // logrus level name
    StoreDriver     string        // mysql or memory
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    AutoMigrate     bool          // run goose migrations on startup
    CORSOrigins     []string      // allowed CORS origins
    ReadTimeout     time.Duration // HTTP server read timeout
    WriteTimeout    time.Duration // HTTP server write timeout
    ShutdownTimeout time.Duration // grace period for in-flight requests
    AMQPURL         string        // RabbitMQ URL; empty disables order events
    OrderLogPath    string        // where the order consumer appends lines
}

// LoadDotEnv reads a .env file into the process environment when present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
    if len(paths) == 0 {
        paths = []string{".env"}
    }
    for _, p := range paths {
        if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
            continue
        }
        if err := godotenv.Load(p); err != nil {
            return fmt.Errorf("loading %s: %w", p, err)
        }
    }
    return nil
}

// Load reads configuration values from the environment. Database settings
// are required only for the mysql driver; every missing variable is
// reported at once.
func Load() (Config, error) {
    var missing []string
    must := func(key string) string {
        v, ok := os.LookupEnv(key)
        if !ok || v == "" {
            missing = append(missing, key)
        }
        return v
    }

    cfg := Config{
        Env:             envStr("APP_ENV", "dev"),
        Port:            envStr("APP_PORT", "8080"),
        LogLevel:        envStr("LOG_LEVEL", "info"),
        StoreDriver:     strings.ToLower(envStr("STORE_DRIVER", DriverMySQL)),
        DBPass:          os.Getenv("DB_PASS"),
        AutoMigrate:     envBool("DB_AUTO_MIGRATE", true),
        CORSOrigins:     splitList(envStr("CORS_ORIGINS", "*")),
        ReadTimeout:     envDur("HTTP_READ_TIMEOUT", 10*time.Second),
        WriteTimeout:    envDur("HTTP_WRITE_TIMEOUT", 10*time.Second),
        ShutdownTimeout: envDur("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
        AMQPURL:         amqpURL(),
        OrderLogPath:    envStr("ORDER_LOG_PATH", "logs/orders.log"),
    }

    switch cfg.StoreDriver {
    case DriverMySQL:
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case DriverMemory:
    default:
        return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
    }
    if len(missing) > 0 {
        return cfg, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }
    if _, err := strconv.Atoi(cfg.Port); err != nil {
        return cfg, fmt.Errorf("invalid APP_PORT %q", cfg.Port)
    }
    return cfg, nil
}

// amqpURL honours RABBITMQ_URL first and AMQP_URL second. "off" disables
// messaging explicitly.
func amqpURL() string {
    url := os.Getenv("RABBITMQ_URL")
    if url == "" {
        url = os.Getenv("AMQP_URL")
    }
    if strings.EqualFold(url, "off") {
        return ""
    }
    return url
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
