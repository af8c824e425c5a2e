// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pdiddy/studyweb/internal/answer"
	"github.com/pdiddy/studyweb/internal/cache"
	"github.com/pdiddy/studyweb/internal/encyclopedia"
	"github.com/pdiddy/studyweb/internal/secrets"
	"github.com/pdiddy/studyweb/pkg/types"
)

// envKeyReplacer maps "cache.backend" to STUDYWEB_CACHE_BACKEND.
var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("lookup.endpoint", encyclopedia.DefaultEndpoint)
	v.SetDefault("lookup.timeout", time.Duration(0))
	v.SetDefault("lookup.user_agent", "studyweb/"+version)
	v.SetDefault("cache.backend", string(types.CacheNone))
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.allow_origins", []string{"*"})
	v.SetDefault("view.guard_stale", true)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".cache", "studyweb", "pages.db")
	}
	return filepath.Join(dir, "studyweb", "pages.db")
}

func decodeConfig(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = types.CacheNone
	}
	return cfg, nil
}

// newLogger builds a logrus logger writing to w.
func newLogger(cfg types.LogConfig, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return l
}

// newPipeline wires the lookup client and cache. The caller closes the
// returned cache.
func newPipeline(cfg types.AppConfig, log logrus.FieldLogger) (*answer.Pipeline, cache.PageCache, error) {
	lookupCfg := cfg.Lookup
	lookupCfg.UserAgent = secrets.UserAgent(lookupCfg.UserAgent, loadedSecrets)

	pc, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	client := encyclopedia.NewClient(lookupCfg, log)
	return answer.New(client, pc, log), pc, nil
}
