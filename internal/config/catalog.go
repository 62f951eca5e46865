package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CatalogConfig is the purchasable color palette. Color names map to hex
// codes; the set is closed, order intake accepts any name but fulfillment
// resolves unknown names to an empty code.
type CatalogConfig struct {
	Palette map[string]string `mapstructure:"palette"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Palette: map[string]string{
			"Pink":   "#ff69b4",
			"Blue":   "#87ceeb",
			"Purple": "#9370db",
			"Green":  "#98fb98",
			"Gold":   "#ffd700",
			"White":  "#fffafa",
		},
	}
}

// CatalogHolder keeps the active catalog behind an atomic.Value so a
// reload never races with request handling.
type CatalogHolder struct {
	current atomic.Value // holds CatalogConfig
}

func NewCatalogHolder() (*CatalogHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/unicornshop")
	v.AddConfigPath(".")

	v.SetEnvPrefix("UNICORNSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &CatalogHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultCatalogConfig())
		return holder, nil
	}

	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return nil, err
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CatalogConfig
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[catalog-config] reload failed: %v", err)
			return
		}
		if err := validateCatalogConfig(updated); err != nil {
			log.Printf("[catalog-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[catalog-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *CatalogHolder) Get() CatalogConfig {
	return h.current.Load().(CatalogConfig)
}

// ColorCode resolves a color name against the active palette. Unknown
// names return ok=false and an empty code; callers decide how loudly to
// complain.
func (h *CatalogHolder) ColorCode(name string) (string, bool) {
	code, ok := h.Get().Palette[name]
	return code, ok
}

func validateCatalogConfig(cfg CatalogConfig) error {
	if len(cfg.Palette) == 0 {
		return errors.New("catalog.palette cannot be empty")
	}
	for name, code := range cfg.Palette {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(code) == "" {
			return errors.New("catalog.palette entries must have a name and a code")
		}
	}
	return nil
}
