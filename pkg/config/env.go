package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvIdempotencyTTL    = "IDEMPOTENCY_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvClinicTimeZone     = "CLINIC_TIME_ZONE"
	EnvSlotGranularityMin = "SLOT_GRANULARITY_MIN"
	EnvMinLeadMin         = "MIN_LEAD_MIN"
	EnvBookableWeekdays   = "BOOKABLE_WEEKDAYS"
	EnvMaxAdvanceDays     = "MAX_ADVANCE_DAYS"

	EnvCatalogCacheSize = "CATALOG_CACHE_SIZE"
	EnvCatalogCacheTTL  = "CATALOG_CACHE_TTL"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvKafkaBookingTopic  = "KAFKA_BOOKING_TOPIC"
	EnvKafkaReviewTopic   = "KAFKA_REVIEW_TOPIC"
	EnvKafkaReviewGroupID = "KAFKA_REVIEW_GROUP_ID"
	EnvKafkaDLQTopic      = "KAFKA_DLQ_TOPIC"
)
