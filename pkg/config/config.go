package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GoogleMaps   GoogleMapsConfig
	Pricing      PricingConfig
	Upstream     UpstreamConfig
	Reorder      ReorderConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERY_APP_ENV" required:"true"`
	Port         string `envconfig:"DELIVERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DELIVERY_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"DELIVERY_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"DELIVERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DELIVERY_DB_DSN"`
	Driver string `envconfig:"DELIVERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DELIVERY_DB_HOST"`
	LegacyPort     int    `envconfig:"DELIVERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DELIVERY_DB_USER"`
	LegacyPassword string `envconfig:"DELIVERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"DELIVERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"DELIVERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DELIVERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DELIVERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DELIVERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DELIVERY_REDIS_ADDR"`
	Password     string        `envconfig:"DELIVERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELIVERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELIVERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELIVERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DELIVERY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DELIVERY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DELIVERY_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DELIVERY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DELIVERY_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"DELIVERY_GOOGLE_MAPS_API_KEY"`
}

// PricingConfig holds platform defaults; restaurants may override fee and radius per row.
type PricingConfig struct {
	BaseFee         int64         `envconfig:"DELIVERY_PRICING_BASE_FEE" default:"2000"`
	DistanceBands   DistanceBands `envconfig:"DELIVERY_PRICING_DISTANCE_BANDS" default:"3:0,6:1000,10:2000"`
	FreeDeliveryMin int64         `envconfig:"DELIVERY_PRICING_FREE_DELIVERY_MIN" default:"0"`
	ServiceRadiusKm float64       `envconfig:"DELIVERY_PRICING_SERVICE_RADIUS_KM" default:"10"`
}

// DistanceBand is one step of the distance surcharge table.
type DistanceBand struct {
	UpToKm    float64
	Surcharge int64
}

// DistanceBands decodes "upToKm:surcharge" pairs separated by commas, sorted by distance.
type DistanceBands []DistanceBand

func (b *DistanceBands) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*b = nil
		return nil
	}
	parts := strings.Split(value, ",")
	bands := make(DistanceBands, 0, len(parts))
	for _, part := range parts {
		pair := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(pair) != 2 {
			return fmt.Errorf("invalid distance band %q", part)
		}
		upTo, err := strconv.ParseFloat(strings.TrimSpace(pair[0]), 64)
		if err != nil || upTo <= 0 {
			return fmt.Errorf("invalid distance band bound %q", pair[0])
		}
		surcharge, err := strconv.ParseInt(strings.TrimSpace(pair[1]), 10, 64)
		if err != nil || surcharge < 0 {
			return fmt.Errorf("invalid distance band surcharge %q", pair[1])
		}
		bands = append(bands, DistanceBand{UpToKm: upTo, Surcharge: surcharge})
	}
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].UpToKm < bands[j].UpToKm })
	*b = bands
	return nil
}

type UpstreamConfig struct {
	FetchTimeout       time.Duration `envconfig:"DELIVERY_UPSTREAM_FETCH_TIMEOUT" default:"3s"`
	BreakerFailures    uint32        `envconfig:"DELIVERY_UPSTREAM_BREAKER_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"DELIVERY_UPSTREAM_BREAKER_OPEN_TIMEOUT" default:"30s"`
	MenuCacheTTL       time.Duration `envconfig:"DELIVERY_UPSTREAM_MENU_CACHE_TTL" default:"30s"`
}

type ReorderConfig struct {
	QuantityPolicy string `envconfig:"DELIVERY_REORDER_QUANTITY_POLICY" default:"clamp_to_stock"`
}

// RateLimitConfig throttles cart mutations per customer and per client IP.
type RateLimitConfig struct {
	CartWindow        time.Duration `envconfig:"DELIVERY_RATE_LIMIT_CART_WINDOW" default:"1m"`
	CartCustomerLimit int           `envconfig:"DELIVERY_RATE_LIMIT_CART_CUSTOMER" default:"120"`
	CartIPLimit       int           `envconfig:"DELIVERY_RATE_LIMIT_CART_IP" default:"300"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DELIVERY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:delivery.db?cache=shared"
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
