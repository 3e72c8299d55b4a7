package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingConfig carries the tunables of the billing subsystem.
type BillingConfig struct {
	Currency              string        `mapstructure:"currency"`
	DefaultTaxRate        string        `mapstructure:"defaultTaxRate"`
	OverdueAfterDays      int           `mapstructure:"overdueAfterDays"`
	PaymentLockTTLSeconds int           `mapstructure:"paymentLockTTLSeconds"`
	AgingBuckets          []AgingBucket `mapstructure:"agingBuckets"`
}

type AgingBucket struct {
	Label   string `mapstructure:"label" json:"label"`
	MinDays int    `mapstructure:"minDays" json:"min_days"`
	MaxDays *int   `mapstructure:"maxDays" json:"max_days,omitempty"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		Currency:              "INR",
		DefaultTaxRate:        "0",
		OverdueAfterDays:      30,
		PaymentLockTTLSeconds: 15,
		AgingBuckets: []AgingBucket{
			{Label: "current", MinDays: 0, MaxDays: intPtr(0)},
			{Label: "1-30", MinDays: 1, MaxDays: intPtr(30)},
			{Label: "31-60", MinDays: 31, MaxDays: intPtr(60)},
			{Label: "61-90", MinDays: 61, MaxDays: intPtr(90)},
			{Label: "90+", MinDays: 91, MaxDays: nil},
		},
	}
}

func intPtr(v int) *int { return &v }

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

// NewStaticBillingConfigHolder pins a config without file watching.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/clinicdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLINICDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.currency", defaults.Currency)
	v.SetDefault("billing.defaultTaxRate", defaults.DefaultTaxRate)
	v.SetDefault("billing.overdueAfterDays", defaults.OverdueAfterDays)
	v.SetDefault("billing.paymentLockTTLSeconds", defaults.PaymentLockTTLSeconds)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeBillingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticBillingConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	log = log.Named("billing.config")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeBillingConfig(v)
		if err != nil {
			log.Warn("invalid billing config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("billing config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	if h == nil {
		return DefaultBillingConfig()
	}
	cfg, ok := h.current.Load().(BillingConfig)
	if !ok {
		return DefaultBillingConfig()
	}
	return cfg
}

func decodeBillingConfig(v *viper.Viper) (BillingConfig, error) {
	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return BillingConfig{}, err
	}
	if len(cfg.AgingBuckets) == 0 {
		cfg.AgingBuckets = DefaultBillingConfig().AgingBuckets
	}
	if err := validateBillingConfig(cfg); err != nil {
		return BillingConfig{}, err
	}
	return cfg, nil
}

func validateBillingConfig(cfg BillingConfig) error {
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("billing.currency cannot be empty")
	}
	if cfg.OverdueAfterDays < 0 {
		return errors.New("billing.overdueAfterDays cannot be negative")
	}
	if cfg.PaymentLockTTLSeconds <= 0 {
		return errors.New("billing.paymentLockTTLSeconds must be positive")
	}
	for i, bucket := range cfg.AgingBuckets {
		if bucket.MaxDays != nil && *bucket.MaxDays < bucket.MinDays {
			return errors.New("billing.agingBuckets has an inverted range")
		}
		if i > 0 && bucket.MinDays <= cfg.AgingBuckets[i-1].MinDays {
			return errors.New("billing.agingBuckets must be ascending")
		}
	}
	return nil
}
