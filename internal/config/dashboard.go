package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DashboardConfig carries the tunable dashboard knobs: KPI thresholds and
// cache staleness bounds. It is hot-reloadable from dashboard.yml.
type DashboardConfig struct {
	// OverdueAfterDays marks an order overdue once its order date is older
	// than this many days. KPI only, never affects mutation logic.
	OverdueAfterDays int `mapstructure:"overdueAfterDays"`
	// InvoicedStatus is the status value counted as closed by the KPI block.
	InvoicedStatus string `mapstructure:"invoicedStatus"`

	OrdersCacheTTL  time.Duration `mapstructure:"ordersCacheTTL"`
	LookupsCacheTTL time.Duration `mapstructure:"lookupsCacheTTL"`
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		OverdueAfterDays: 7,
		InvoicedStatus:   "Invoiced",
		OrdersCacheTTL:   15 * time.Second,
		LookupsCacheTTL:  60 * time.Second,
	}
}

type DashboardConfigHolder struct {
	current atomic.Value // holds DashboardConfig
}

func NewDashboardConfigHolder() (*DashboardConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("dashboard")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/stocktrail/config")
	v.AddConfigPath("/etc/stocktrail")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STOCKTRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDashboardConfig()
		v.SetDefault("dashboard.overdueAfterDays", defaults.OverdueAfterDays)
		v.SetDefault("dashboard.invoicedStatus", defaults.InvoicedStatus)
		v.SetDefault("dashboard.ordersCacheTTL", defaults.OrdersCacheTTL)
		v.SetDefault("dashboard.lookupsCacheTTL", defaults.LookupsCacheTTL)
	}

	var cfg DashboardConfig
	if err := v.UnmarshalKey("dashboard", &cfg); err != nil {
		return nil, err
	}
	if err := validateDashboardConfig(cfg); err != nil {
		return nil, err
	}

	holder := &DashboardConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DashboardConfig
		if err := v.UnmarshalKey("dashboard", &updated); err != nil {
			log.Printf("[dashboard-config] reload failed: %v", err)
			return
		}
		if err := validateDashboardConfig(updated); err != nil {
			log.Printf("[dashboard-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[dashboard-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Get returns the current snapshot. A zero holder, as tests construct
// directly, answers with the defaults.
func (h *DashboardConfigHolder) Get() DashboardConfig {
	if cfg, ok := h.current.Load().(DashboardConfig); ok {
		return cfg
	}
	return DefaultDashboardConfig()
}

// Store replaces the current snapshot. Tests use it to pin thresholds.
func (h *DashboardConfigHolder) Store(cfg DashboardConfig) {
	h.current.Store(cfg)
}

func validateDashboardConfig(cfg DashboardConfig) error {
	if cfg.OverdueAfterDays <= 0 {
		return errors.New("dashboard.overdueAfterDays must be positive")
	}
	if strings.TrimSpace(cfg.InvoicedStatus) == "" {
		return errors.New("dashboard.invoicedStatus cannot be empty")
	}
	if cfg.OrdersCacheTTL <= 0 || cfg.LookupsCacheTTL <= 0 {
		return errors.New("dashboard cache TTLs must be positive")
	}
	return nil
}
