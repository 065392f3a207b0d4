package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clinicbook/pkg/client"
	kafka_config "clinicbook/pkg/kafka/config"
	"clinicbook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	RateLimitRequests int
	RateLimitWindow   time.Duration
	IdempotencyTTL    time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	ClinicTimeZone     string
	Location           *time.Location
	SlotGranularityMin int
	MinLeadMin         int
	BookableWeekdays   []time.Weekday
	MaxAdvanceDays     int

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	KafkaEnabled       bool
	KafkaBookingTopic  string
	KafkaReviewTopic   string
	KafkaReviewGroupID string
	KafkaDLQTopic      string
	Kafka              *kafka_config.Config

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	log := logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		IdempotencyTTL:    getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ClinicTimeZone:     getEnvStr(EnvClinicTimeZone, DefaultClinicTimeZone),
		SlotGranularityMin: getEnvNum(EnvSlotGranularityMin, DefaultSlotGranularityMin),
		MinLeadMin:         getEnvNum(EnvMinLeadMin, DefaultMinLeadMin),
		MaxAdvanceDays:     getEnvNum(EnvMaxAdvanceDays, DefaultMaxAdvanceDays),

		CatalogCacheSize: getEnvNum(EnvCatalogCacheSize, DefaultCatalogCacheSize),
		CatalogCacheTTL:  getEnvDuration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),

		KafkaEnabled:       getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaBookingTopic:  getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),
		KafkaReviewTopic:   getEnvStr(EnvKafkaReviewTopic, DefaultKafkaReviewTopic),
		KafkaReviewGroupID: getEnvStr(EnvKafkaReviewGroupID, DefaultKafkaReviewGroupID),
		KafkaDLQTopic:      getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),

		Log:    log,
		Client: client.NewClient(),
	}

	var errs []string
	if loc, err := time.LoadLocation(cfg.ClinicTimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("ClinicTimeZone %q could not be loaded: %v", cfg.ClinicTimeZone, err))
	} else {
		cfg.Location = loc
	}

	weekdays, err := ParseWeekdays(getEnvStr(EnvBookableWeekdays, DefaultBookableWeekdays))
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.BookableWeekdays = weekdays

	if cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			errs = append(errs, err.Error())
		}
		cfg.Kafka = kafkaCfg
	}

	if len(errs) > 0 {
		log.Fatal("Failed to load configuration", "errors", errs)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RequestTimeout":   cfg.RequestTimeout,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"CatalogCacheTTL":  cfg.CatalogCacheTTL,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("ClinicTimeZone must resolve to a location, got: %q", cfg.ClinicTimeZone))
	}
	if cfg.SlotGranularityMin <= 0 || cfg.SlotGranularityMin > 60 || 60%cfg.SlotGranularityMin != 0 {
		errors = append(errors, fmt.Sprintf("SlotGranularityMin must divide 60, got: %d", cfg.SlotGranularityMin))
	}
	if cfg.MinLeadMin < 0 {
		errors = append(errors, fmt.Sprintf("MinLeadMin cannot be negative, got: %d", cfg.MinLeadMin))
	}
	if len(cfg.BookableWeekdays) == 0 {
		errors = append(errors, "BookableWeekdays must name at least one day")
	}
	if cfg.MaxAdvanceDays < 0 {
		errors = append(errors, fmt.Sprintf("MaxAdvanceDays cannot be negative, got: %d", cfg.MaxAdvanceDays))
	}
	if cfg.CatalogCacheSize <= 0 {
		errors = append(errors, fmt.Sprintf("CatalogCacheSize must be positive, got: %d", cfg.CatalogCacheSize))
	}

	if cfg.KafkaEnabled {
		if cfg.KafkaBookingTopic == "" {
			errors = append(errors, "KafkaBookingTopic cannot be empty when Kafka is enabled")
		}
		if cfg.KafkaReviewTopic != "" && cfg.KafkaReviewGroupID == "" {
			errors = append(errors, "KafkaReviewGroupID is required when KafkaReviewTopic is set")
		}
		if cfg.Kafka == nil {
			errors = append(errors, "Kafka settings are missing while Kafka is enabled")
		} else if err := cfg.Kafka.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"clinic_time_zone", cfg.ClinicTimeZone,
		"slot_granularity_min", cfg.SlotGranularityMin,
		"min_lead_min", cfg.MinLeadMin,
		"bookable_weekdays", FormatWeekdays(cfg.BookableWeekdays),
		"max_advance_days", cfg.MaxAdvanceDays,
		"catalog_cache_size", cfg.CatalogCacheSize,
		"catalog_cache_ttl", cfg.CatalogCacheTTL,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"kafka_review_topic", cfg.KafkaReviewTopic,
	)
	if cfg.KafkaEnabled && cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekdays reads a comma separated list of three letter day names.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	seen := map[time.Weekday]bool{}
	var days []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("BookableWeekdays contains unknown day %q", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}

func FormatWeekdays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
