package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"false"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Redis struct {
	URL    string `envconfig:"URL" default:"redis://localhost:6379/0"`
	Stream string `envconfig:"STREAM" default:"splitpay:events"`
	Group  string `envconfig:"GROUP" default:"splitpay"`
}

type Kafka struct {
	Brokers      string `envconfig:"BROKERS" default:"localhost:9092"`
	TopicPrefix  string `envconfig:"TOPIC_PREFIX" default:"splitpay.events"`
	GroupID      string `envconfig:"GROUP_ID" default:"splitpay"`
	SASLUsername string `envconfig:"SASL_USERNAME"`
	SASLPassword string `envconfig:"SASL_PASSWORD"`
}

// EventBus selects where post-commit notifications go.
type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"` // memory, redis or kafka
	Redis  *Redis `envconfig:"REDIS"`
	Kafka  *Kafka `envconfig:"KAFKA"`
}

type Transfer struct {
	BatchSize int           `envconfig:"BATCH_SIZE" default:"100"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[splitpay]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Transfer  *Transfer  `envconfig:"TRANSFER"`
}
