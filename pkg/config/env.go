package config

const EnvPrefix = "DELIVERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "DELIVERY_APP_ENV"
	EnvPort         = "DELIVERY_APP_PORT"
	EnvLogLevel     = "DELIVERY_LOG_LEVEL"
	EnvLogFormat    = "DELIVERY_LOG_FORMAT"
	EnvLogWarnStack = "DELIVERY_LOG_WARN_STACK"

	EnvDBDSN      = "DELIVERY_DB_DSN"
	EnvDBHost     = "DELIVERY_DB_HOST"
	EnvDBPort     = "DELIVERY_DB_PORT"
	EnvDBUser     = "DELIVERY_DB_USER"
	EnvDBPassword = "DELIVERY_DB_PASSWORD"
	EnvDBName     = "DELIVERY_DB_NAME"
	EnvDBSSLMode  = "DELIVERY_DB_SSLMODE"

	EnvRedisURL = "DELIVERY_REDIS_URL"

	EnvJWTSecret  = "DELIVERY_JWT_SECRET"
	EnvJWTIssuer  = "DELIVERY_JWT_ISSUER"
	EnvJWTExpMins = "DELIVERY_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "DELIVERY_USE_SQLITE"
	EnvAutoMigrate = "DELIVERY_AUTO_MIGRATE"

	EnvGoogleMapsAPIKey = "DELIVERY_GOOGLE_MAPS_API_KEY"

	EnvPricingBaseFee         = "DELIVERY_PRICING_BASE_FEE"
	EnvPricingDistanceBands   = "DELIVERY_PRICING_DISTANCE_BANDS"
	EnvPricingFreeDeliveryMin = "DELIVERY_PRICING_FREE_DELIVERY_MIN"
	EnvPricingServiceRadiusKm = "DELIVERY_PRICING_SERVICE_RADIUS_KM"

	EnvUpstreamFetchTimeout    = "DELIVERY_UPSTREAM_FETCH_TIMEOUT"
	EnvUpstreamBreakerFailures = "DELIVERY_UPSTREAM_BREAKER_FAILURES"
	EnvUpstreamBreakerTimeout  = "DELIVERY_UPSTREAM_BREAKER_OPEN_TIMEOUT"
	EnvUpstreamMenuCacheTTL    = "DELIVERY_UPSTREAM_MENU_CACHE_TTL"

	EnvReorderQuantityPolicy = "DELIVERY_REORDER_QUANTITY_POLICY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
