package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the MySQL DSN. Use loc=Local to parse time in the server's timezone.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, "sqlite")
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AMQPConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

// NotificationConfig lists the channels a transfer confirmation is fanned out to.
// Known channels: "email", "redis", "amqp".
type NotificationConfig struct {
	Channels []string `mapstructure:"channels"`
}

func (n *NotificationConfig) Enabled(channel string) bool {
	for _, c := range n.Channels {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

type TicketConfig struct {
	// CodeMaxAttempts bounds the draws of the unique code generator per call.
	CodeMaxAttempts int    `mapstructure:"code_max_attempts"`
	QRSize          int    `mapstructure:"qr_size"`
	QRRecoveryLevel string `mapstructure:"qr_recovery_level"`

	// EventCacheTTL enables the Redis cache in front of event lookups when positive.
	EventCacheTTL time.Duration `mapstructure:"event_cache_ttl"`
}
