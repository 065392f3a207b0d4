package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerCompression  = "snappy"
	DefaultPublishTimeout       = 5 * time.Second

	DefaultConsumerStartOffset  = -1 // newest
	DefaultConsumerMinBytes     = 1
	DefaultConsumerMaxBytes     = 1024 * 1024 // 1MB
	DefaultConsumerMaxWait      = 500 * time.Millisecond
	DefaultConsumerMaxRetries   = 3
	DefaultConsumerRetryBackoff = 200 * time.Millisecond
)
