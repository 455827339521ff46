// Copyright (C) 2025-2026 Ultraconf Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config loads application-level settings for the configuration
// store itself: cache behavior, env-default sourcing, and the value
// encryption passphrase.
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates configuration for the application.
type Config struct {
	Cache      CacheConfig      `mapstructure:"cache"`
	Env        EnvConfig        `mapstructure:"env"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type CacheConfig struct {
	// Enabled routes reads through the shared snapshot cache.
	Enabled bool `mapstructure:"enabled"`
	// TTL bounds how long a cached snapshot stays valid.
	TTL time.Duration `mapstructure:"ttl"`
	// LockTimeout bounds the wait for the cache refresh lock.
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

type EnvConfig struct {
	// DefaultsPrefix selects environment variables merged in as default
	// configuration entries. Empty disables env sourcing.
	DefaultsPrefix string `mapstructure:"defaults_prefix"`
}

type EncryptionConfig struct {
	// Passphrase derives the at-rest encryption key. Empty disables
	// encryption; existing sealed rows then become unreadable.
	Passphrase string `mapstructure:"passphrase"`
}

type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:     true,
			TTL:         time.Hour,
			LockTimeout: 5 * time.Second,
		},
		Env: EnvConfig{
			DefaultsPrefix: "ULTRACONF_DEFAULT_",
		},
	}
}

// Load reads configuration from a config file and environment variables.
// Environment variables use the prefix "ULTRACONF" and the dot character
// in keys is replaced by an underscore. For example, "cache.ttl" becomes
// "ULTRACONF_CACHE_TTL".
func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("ultraconf")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ULTRACONF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
