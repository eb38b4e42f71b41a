package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/protecthire/protecthire/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StorageBackend, convey.ShouldEqual, "memory")
			convey.So(cfg.SeedOnEmpty, convey.ShouldBeTrue)
			convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.NotifyWorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.IdempotencyCacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := map[string]func(*config.Config){
			"addr must not be empty":                  func(c *config.Config) { c.Addr = " " },
			"log_level":                               func(c *config.Config) { c.LogLevel = "verbose" },
			"log_format":                              func(c *config.Config) { c.LogFormat = "xml" },
			"unknown storage_backend":                 func(c *config.Config) { c.StorageBackend = "cassandra" },
			"storage_path is required":                func(c *config.Config) { c.StorageBackend = "sqlite" },
			"postgres_dsn is required":                func(c *config.Config) { c.StorageBackend = "postgres" },
			"redis_addr is required":                  func(c *config.Config) { c.StorageBackend = "redis" },
			"notify_queue_size must be positive":      func(c *config.Config) { c.NotifyQueueSize = 0 },
			"notify_worker_count must be positive":    func(c *config.Config) { c.NotifyWorkerCount = -1 },
			"idempotency_cache_size must be positive": func(c *config.Config) { c.IdempotencyCacheSize = 0 },
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})

	convey.Convey("Given a complete postgres config", t, func() {
		cfg := config.New()
		cfg.StorageBackend = "POSTGRES"
		cfg.PostgresDSN = "postgres://localhost/protecthire"

		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
