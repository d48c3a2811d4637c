package config

import (
	"os"
	"strconv"
	"strings"
)

// Command transports understood by COMMAND_TRANSPORT.
const (
	TransportMQTT = "mqtt"
	TransportIoT  = "iot"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort         string
	AppEnv          string
	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	DynamoBootstrap bool

	CommandTransport string
	IoTEndpoint      string
	MQTT             MQTTConfig
	Influx           InfluxConfig

	NotificationsTopicARN string // optional SNS fan-out of saved notifications
	UsageLogArchiveBucket string // optional S3 archive for ranged usage-log deletes

	LogLevel  string
	LogFormat string

	AllowedOrigins   []string // CORS allowed origins
	CommandRateLimit float64  // requests/second per IP on the command endpoint
	CommandRateBurst int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	UsageLogs     string
	DeviceStatus  string
	Notifications string
	Schedules     string
}

// MQTTConfig describes the broker used for device commands and state events.
type MQTTConfig struct {
	Host           string
	Port           int
	ClientID       string
	Username       string
	Password       string
	TLS            bool
	StateTopic     string
	SubscribeState bool
}

// InfluxConfig enables the optional device-state history writer.
type InfluxConfig struct {
	Enabled bool
	URL     string
	Token   string
	Org     string
	Bucket  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "eu-west-2"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			UsageLogs:     getEnv("DYNAMO_TABLE_USAGE_LOGS", "DeviceUsageLogs"),
			DeviceStatus:  getEnv("DYNAMO_TABLE_DEVICE_STATUS", "DeviceStatus"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "Notifications"),
			Schedules:     getEnv("DYNAMO_TABLE_SCHEDULES", "ScheduleDev"),
		},
		DynamoBootstrap:  getEnvBool("DYNAMO_BOOTSTRAP", false),
		CommandTransport: strings.ToLower(getEnv("COMMAND_TRANSPORT", TransportMQTT)),
		IoTEndpoint:      getEnv("IOT_ENDPOINT", ""),
		MQTT: MQTTConfig{
			Host:           getEnv("MQTT_HOST", "localhost"),
			Port:           getEnvInt("MQTT_PORT", 1883),
			ClientID:       getEnv("MQTT_CLIENT_ID", "smarthome-panel"),
			Username:       getEnv("MQTT_USERNAME", ""),
			Password:       getEnv("MQTT_PASSWORD", ""),
			TLS:            getEnvBool("MQTT_TLS", false),
			StateTopic:     getEnv("MQTT_STATE_TOPIC", "smarthome/commands/+"),
			SubscribeState: getEnvBool("MQTT_SUBSCRIBE_STATE", false),
		},
		Influx: InfluxConfig{
			Enabled: getEnvBool("INFLUX_ENABLED", false),
			URL:     getEnv("INFLUX_URL", "http://localhost:8086"),
			Token:   getEnv("INFLUX_TOKEN", ""),
			Org:     getEnv("INFLUX_ORG", "smarthome"),
			Bucket:  getEnv("INFLUX_BUCKET", "device_state"),
		},
		NotificationsTopicARN: getEnv("NOTIFICATIONS_SNS_TOPIC_ARN", ""),
		UsageLogArchiveBucket: getEnv("USAGE_LOG_ARCHIVE_BUCKET", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "json"),
		AllowedOrigins:        strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		CommandRateLimit:      getEnvFloat("COMMAND_RATE_LIMIT", 5),
		CommandRateBurst:      getEnvInt("COMMAND_RATE_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
