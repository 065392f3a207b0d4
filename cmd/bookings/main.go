package main

import (
	"clinicbook/internal/availability"
	"clinicbook/internal/bookings/events"
	"clinicbook/internal/bookings/handler"
	"clinicbook/internal/bookings/repository"
	"clinicbook/internal/bookings/service"
	"clinicbook/internal/bookings/validator"
	"clinicbook/internal/catalog/cache"
	cataloghandler "clinicbook/internal/catalog/handler"
	catalogrepo "clinicbook/internal/catalog/repository"
	catalogservice "clinicbook/internal/catalog/service"
	"clinicbook/pkg/app"
	"clinicbook/pkg/config"
	"clinicbook/pkg/kafka"
	kafkamiddleware "clinicbook/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	catalog := cache.NewCachedCatalog(
		catalogrepo.NewMongoCatalogRepository(cfg),
		cfg.CatalogCacheSize,
		cfg.CatalogCacheTTL,
		cfg.Log,
	)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	engine := availability.NewEngine(catalog, bookingRepo, availability.SystemClock{}, availability.SettingsFromConfig(cfg), cfg.Log.Component("availability"))

	publisher := initPublisher(cfg, serverApp)
	bookingService := service.NewBookingService(
		bookingRepo,
		engine,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		availability.SystemClock{},
		cfg,
	)
	initReviewConsumer(cfg, serverApp, bookingService)

	serverApp.SetApp(
		cataloghandler.NewCatalogHandler(catalogservice.NewCatalogService(catalog, cfg), cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Location, cfg.Log),
	)
	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName, "kafka", cfg.KafkaEnabled)
	serverApp.Run()
}

func initPublisher(cfg *config.Config, serverApp *app.Application) service.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return service.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaBookingTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafkamiddleware.NewMetrics()
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.Producer())

	serverApp.OnShutdown("kafka-producer", func() error {
		metrics.Log(cfg.Log)
		return producer.Close()
	})
	return events.NewBookingPublisher(producer)
}

func initReviewConsumer(cfg *config.Config, serverApp *app.Application, bookingService service.BookingService) {
	if !cfg.KafkaEnabled {
		return
	}

	consumer, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.KafkaReviewTopic,
		cfg.KafkaReviewGroupID,
		cfg.KafkaDLQTopic,
		events.ReviewHandler(bookingService),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	metrics := kafkamiddleware.NewMetrics()
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.Consumer())

	serverApp.AddWorker("review-consumer", consumer.Start)
	serverApp.OnShutdown("kafka-consumer", func() error {
		metrics.Log(cfg.Log)
		return consumer.Close()
	})
}
