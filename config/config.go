package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// Configuration holds every knob of the server. It is built once at startup
// from file, environment and defaults, and passed explicitly to each
// component; there is no package-global config state.
type Configuration struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	AdminPort int    `mapstructure:"admin_port"`

	EnableGzip bool `mapstructure:"enable_gzip"`

	Sheets     Sheets     `mapstructure:"sheets"`
	Cache      Cache      `mapstructure:"cache"`
	Geocoder   Geocoder   `mapstructure:"geocoder"`
	Reconciler Reconciler `mapstructure:"reconciler"`
	Login      Login      `mapstructure:"login"`
	Analytics  Analytics  `mapstructure:"analytics"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// Sheets addresses the external spreadsheet acting as the database.
type Sheets struct {
	SpreadsheetID       string `mapstructure:"spreadsheet_id"`
	ServiceAccountEmail string `mapstructure:"service_account_email"`
	PrivateKey          string `mapstructure:"private_key"`

	InventorySheet string `mapstructure:"inventory_sheet"`
	StoreSheet     string `mapstructure:"store_sheet"`
	AgentSheet     string `mapstructure:"agent_sheet"`
}

type Cache struct {
	TTLSeconds             int `mapstructure:"ttl_seconds"`
	Capacity               int `mapstructure:"capacity"`
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds"`
}

func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c Cache) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

type Geocoder struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	// RowDelayMS is the pause after each active store row, respecting the
	// geocoder's rate limit.
	RowDelayMS int `mapstructure:"row_delay_ms"`
}

func (g Geocoder) RowDelay() time.Duration {
	return time.Duration(g.RowDelayMS) * time.Millisecond
}

type Reconciler struct {
	IntervalSeconds int  `mapstructure:"interval_seconds"`
	RunOnStartup    bool `mapstructure:"run_on_startup"`
}

func (r Reconciler) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// Login carries the identity-resolution allow-list and the coordinates every
// inventory-mode session is pinned to.
type Login struct {
	InventoryIDs     []string `mapstructure:"inventory_ids"`
	DefaultLatitude  float64  `mapstructure:"default_latitude"`
	DefaultLongitude float64  `mapstructure:"default_longitude"`
}

type Analytics struct {
	File    FileLogs `mapstructure:"file"`
	Discord Discord  `mapstructure:"discord"`
}

type FileLogs struct {
	Filename string `mapstructure:"filename"`
}

type Discord struct {
	Enabled         bool   `mapstructure:"enabled"`
	WebhookURL      string `mapstructure:"webhook_url"`
	AgentWebhookURL string `mapstructure:"agent_webhook_url"`
	TimeoutMS       int    `mapstructure:"timeout_ms"`
}

func (d Discord) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

type Metrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// New uses viper to build our server configuration.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	glog.Infof("config: serving spreadsheet %q on %s:%d", c.Sheets.SpreadsheetID, c.Host, c.Port)
	return &c, nil
}

func (cfg *Configuration) validate() error {
	var errs []error
	if cfg.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("sheets.spreadsheet_id is required"))
	}
	if cfg.Sheets.ServiceAccountEmail == "" {
		errs = append(errs, errors.New("sheets.service_account_email is required"))
	}
	if cfg.Sheets.PrivateKey == "" {
		errs = append(errs, errors.New("sheets.private_key is required"))
	}
	if cfg.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid port: %d", cfg.Port))
	}
	if cfg.Geocoder.APIKey == "" {
		glog.Warning("config: geocoder.api_key is not set, coordinate reconciliation will clear all coordinates")
	}
	return errors.Join(errs...)
}

// ServiceAccountKey returns the private key with escaped newlines restored,
// matching how the key arrives through environment variables.
func (s Sheets) ServiceAccountKey() string {
	if strings.Contains(s.PrivateKey, `\n`) {
		return strings.ReplaceAll(s.PrivateKey, `\n`, "\n")
	}
	return s.PrivateKey
}

// SetupViper sets the default config values and binds environment variables
// for the given viper instance.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 4000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", true)

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.service_account_email", "")
	v.SetDefault("sheets.private_key", "")
	v.SetDefault("sheets.inventory_sheet", "폰클재고데이터")
	v.SetDefault("sheets.store_sheet", "폰클출고처데이터")
	v.SetDefault("sheets.agent_sheet", "대리점아이디관리")

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.capacity", 100)
	v.SetDefault("cache.cleanup_interval_seconds", 300)

	v.SetDefault("geocoder.endpoint", "https://dapi.kakao.com/v2/local/search/address.json")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.row_delay_ms", 1000)

	v.SetDefault("reconciler.interval_seconds", 3600)
	v.SetDefault("reconciler.run_on_startup", true)

	v.SetDefault("login.inventory_ids", []string{
		"JEGO306891", "JEGO315835", "JEGO314942", "JEGO316558", "JEGO316254",
	})
	v.SetDefault("login.default_latitude", 37.5665)
	v.SetDefault("login.default_longitude", 126.9780)

	v.SetDefault("analytics.file.filename", "")
	v.SetDefault("analytics.discord.enabled", false)
	v.SetDefault("analytics.discord.webhook_url", "")
	v.SetDefault("analytics.discord.agent_webhook_url", "")
	v.SetDefault("analytics.discord.timeout_ms", 5000)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "vipmap")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("VIPMAP")
	v.AutomaticEnv()
	v.ReadInConfig()
}
