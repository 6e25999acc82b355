package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"laurel-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	Version                       string   `env:"APP_VERSION" env-default:"dev"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (case registry)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"laurel"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Graph projection (Neo4j / Memgraph), optional
	GraphEnabled    bool   `env:"GRAPH_ENABLED" env-default:"false"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Kafka consumer (case registry change feed)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaCaseEventsTopic string   `env:"KAFKA_CASE_EVENTS_TOPIC" env-default:"case-events"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"laurel-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka producer (conflict check audit feed)
	KafkaProducerEnabled bool   `env:"KAFKA_PRODUCER_ENABLED" env-default:"true"`
	KafkaOutputTopic     string `env:"KAFKA_OUTPUT_TOPIC" env-default:"conflict-events"`
	KafkaBatchSize       int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout    int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks    int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression     string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Matching
	TransliterationEnabled bool    `env:"TRANSLITERATION_ENABLED" env-default:"true"`
	MatchHighThreshold     float64 `env:"MATCH_HIGH_THRESHOLD" env-default:"0.95"`
	MatchMediumThreshold   float64 `env:"MATCH_MEDIUM_THRESHOLD" env-default:"0.85"`
	MatchLowThreshold      float64 `env:"MATCH_LOW_THRESHOLD" env-default:"0.75"`
	MinSimilarityLength    int     `env:"MATCH_MIN_SIMILARITY_LENGTH" env-default:"10"`

	// Conflict engine
	RelatedChecksEnabled bool `env:"RELATED_CHECKS_ENABLED" env-default:"true"`

	// Caching
	CacheEnabled       bool          `env:"CACHE_ENABLED" env-default:"true"`
	ReportCacheTTL     time.Duration `env:"REPORT_CACHE_TTL" env-default:"5m"`
	ReportCacheMaxSize int           `env:"REPORT_CACHE_MAX_SIZE" env-default:"1000"`
	LookupCacheTTL     time.Duration `env:"LOOKUP_CACHE_TTL" env-default:"10m"`
	CacheSweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" env-default:"1m"`
}
