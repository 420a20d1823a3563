package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Razorpay      RazorpayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ELORIE_APP_ENV" required:"true"`
	Port         string `envconfig:"ELORIE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ELORIE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ELORIE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ELORIE_DB_DSN"`
	Driver string `envconfig:"ELORIE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ELORIE_DB_HOST"`
	LegacyPort     int    `envconfig:"ELORIE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ELORIE_DB_USER"`
	LegacyPassword string `envconfig:"ELORIE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ELORIE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ELORIE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ELORIE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ELORIE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ELORIE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ELORIE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ELORIE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ELORIE_REDIS_ADDR"`
	Password     string        `envconfig:"ELORIE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ELORIE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ELORIE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ELORIE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ELORIE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ELORIE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ELORIE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ELORIE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ELORIE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ELORIE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"ELORIE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ELORIE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ELORIE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ELORIE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ELORIE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ELORIE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"ELORIE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit    int           `envconfig:"ELORIE_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"ELORIE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"ELORIE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit int           `envconfig:"ELORIE_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"ELORIE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ELORIE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ELORIE_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	// Orders above this subtotal ship free; below it the per-item
	// shipping charges are summed.
	FreeShippingOverPaise int    `envconfig:"ELORIE_FREE_SHIPPING_OVER_PAISE" default:"49900"`
	Currency              string `envconfig:"ELORIE_CURRENCY" default:"INR"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"ELORIE_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"ELORIE_RAZORPAY_KEY_SECRET"`
	Env       string `envconfig:"ELORIE_RAZORPAY_ENV" default:"test"`
}

// Environment returns the normalized Razorpay environment (test/live).
func (r RazorpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(r.Env))
	if env == "" {
		return "test"
	}
	return env
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
