package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinicbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = time.Minute
	DefaultIdempotencyTTL    = 10 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultClinicTimeZone     = "UTC"
	DefaultSlotGranularityMin = 30
	DefaultMinLeadMin         = 30
	DefaultBookableWeekdays   = "mon,tue,wed,thu,fri"
	DefaultMaxAdvanceDays     = 0

	DefaultCatalogCacheSize = 256
	DefaultCatalogCacheTTL  = 5 * time.Minute

	DefaultKafkaEnabled       = false
	DefaultKafkaBookingTopic  = "booking.requested"
	DefaultKafkaReviewTopic   = "booking.reviewed"
	DefaultKafkaReviewGroupID = "clinicbook-review"
	DefaultKafkaDLQTopic      = "booking.dlq"
)
