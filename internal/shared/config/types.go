// Package config defines the typed configuration structs shared across the
// application. Loading and defaulting live in infrastructure/config.
package config

import "fmt"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GetAddr returns the listen address in host:port form.
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	OutputPath string `mapstructure:"output_path"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address in host:port form.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MpesaConfig holds Daraja API credentials and endpoints. Credentials are
// injected here rather than read from process globals so the gateway adapter
// can be constructed explicitly.
type MpesaConfig struct {
	Environment    string `mapstructure:"environment"` // "sandbox" or "production"
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	ShortCode      string `mapstructure:"short_code"`
	Passkey        string `mapstructure:"passkey"`
	CallbackURL    string `mapstructure:"callback_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// IsProduction reports whether the production Daraja endpoints should be used.
func (c *MpesaConfig) IsProduction() bool {
	return c.Environment == "production"
}

// BillingConfig holds subscription and credit ledger settings.
type BillingConfig struct {
	// StrictAmountCheck makes paid-plan activation verify the paid amount
	// against the plan price, like renewal and credit purchase already do.
	// The historical behavior is lenient, so the default is false.
	StrictAmountCheck bool `mapstructure:"strict_amount_check"`
	// DefaultFreeCredits is granted when the free plan's feature list does
	// not encode a credit amount.
	DefaultFreeCredits int `mapstructure:"default_free_credits"`
	// ReconcileAfterMinutes is how old a pending payment must be before the
	// gateway is polled directly for its status.
	ReconcileAfterMinutes int `mapstructure:"reconcile_after_minutes"`
}

// EmailConfig holds SMTP settings for best-effort payment notifications.
type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	// NotifyAddress is the operations mailbox that receives payment result
	// summaries. No user emails are on file, so notifications go here.
	NotifyAddress string `mapstructure:"notify_address"`
}
