package internal

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RunAddress           = "RUN_ADDRESS"
	DatabaseURI          = "DATABASE_URI"
	JWTSecret            = "JWT_SECRET"
	NotifyTransport      = "NOTIFY_TRANSPORT"
	AMQPURL              = "AMQP_URL"
	AMQPQueue            = "AMQP_QUEUE"
	SMTPAddress          = "SMTP_ADDRESS"
	SMTPFrom             = "SMTP_FROM"
	KafkaBrokers         = "KAFKA_BROKERS"
	KafkaTopic           = "KAFKA_TOPIC"
	RedisURL             = "REDIS_URL"
	CutoffHour           = "CUTOFF_HOUR"
	TimeZone             = "TIME_ZONE"
	OverdueSweepInterval = "OVERDUE_SWEEP_INTERVAL"
)

const (
	defaultRunAddress           = "localhost:8080"
	defaultJWTSecret            = "secret"
	defaultNotifyTransport      = TransportLog
	defaultAMQPQueue            = "notifications"
	defaultSMTPFrom             = "no-reply@bogocargo.co"
	defaultKafkaTopic           = "order-events"
	defaultCutoffHour           = 17
	defaultTimeZone             = "America/Bogota"
	defaultOverdueSweepInterval = time.Hour
)

const (
	TransportLog  = "log"
	TransportAMQP = "amqp"
	TransportSMTP = "smtp"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
	JWTSecret   string

	NotifyTransport string
	AMQPURL         string
	AMQPQueue       string
	SMTPAddress     string
	SMTPFrom        string

	KafkaBrokers []string
	KafkaTopic   string
	RedisURL     string

	CutoffHour           int
	Location             *time.Location
	OverdueSweepInterval time.Duration
}

// NewConfig reads .env (if present), the environment and the command line, in increasing priority.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	return ParseConfig(flag.CommandLine, os.Args[1:])
}

func ParseConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	c := new(Config)

	var (
		brokers string
		tz      string
	)

	fs.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	fs.StringVar(&c.DatabaseURI, "d", setEnvOrDefault(DatabaseURI, ""), "postgres connection path, in-memory store when empty")
	fs.StringVar(&c.JWTSecret, "s", setEnvOrDefault(JWTSecret, defaultJWTSecret), "jwt signing secret")
	fs.StringVar(&c.NotifyTransport, "n", setEnvOrDefault(NotifyTransport, defaultNotifyTransport), "notification transport: log, amqp or smtp")
	fs.StringVar(&c.AMQPURL, "amqp", setEnvOrDefault(AMQPURL, ""), "rabbitmq url")
	fs.StringVar(&c.AMQPQueue, "amqp-queue", setEnvOrDefault(AMQPQueue, defaultAMQPQueue), "rabbitmq notification queue")
	fs.StringVar(&c.SMTPAddress, "smtp", setEnvOrDefault(SMTPAddress, ""), "smtp relay host:port")
	fs.StringVar(&c.SMTPFrom, "smtp-from", setEnvOrDefault(SMTPFrom, defaultSMTPFrom), "sender address")
	fs.StringVar(&brokers, "k", setEnvOrDefault(KafkaBrokers, ""), "comma separated kafka brokers, events disabled when empty")
	fs.StringVar(&c.KafkaTopic, "kafka-topic", setEnvOrDefault(KafkaTopic, defaultKafkaTopic), "kafka topic for order events")
	fs.StringVar(&c.RedisURL, "r", setEnvOrDefault(RedisURL, ""), "redis url, cache disabled when empty")
	fs.IntVar(&c.CutoffHour, "cutoff", envIntOrDefault(CutoffHour, defaultCutoffHour), "same-day pickup cutoff hour")
	fs.StringVar(&tz, "tz", setEnvOrDefault(TimeZone, defaultTimeZone), "business time zone")
	fs.DurationVar(&c.OverdueSweepInterval, "sweep", envDurationOrDefault(OverdueSweepInterval, defaultOverdueSweepInterval), "overdue invoice sweep interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			c.KafkaBrokers = append(c.KafkaBrokers, b)
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", tz, err)
	}
	c.Location = loc

	if c.OverdueSweepInterval <= 0 {
		return nil, fmt.Errorf("overdue sweep interval must be positive")
	}

	if c.CutoffHour < 0 || c.CutoffHour > 23 {
		return nil, fmt.Errorf("cutoff hour %d out of range", c.CutoffHour)
	}

	switch c.NotifyTransport {
	case TransportLog:
	case TransportAMQP:
		if c.AMQPURL == "" {
			return nil, fmt.Errorf("%s transport requires %s", TransportAMQP, AMQPURL)
		}
	case TransportSMTP:
		if c.SMTPAddress == "" {
			return nil, fmt.Errorf("%s transport requires %s", TransportSMTP, SMTPAddress)
		}
	default:
		return nil, fmt.Errorf("unknown notification transport %q", c.NotifyTransport)
	}

	return c, nil
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}

func envIntOrDefault(env string, def int) int {
	n, err := strconv.Atoi(setEnvOrDefault(env, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}

func envDurationOrDefault(env string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(setEnvOrDefault(env, def.String()))
	if err != nil {
		return def
	}
	return d
}
