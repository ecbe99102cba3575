package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("FILE_DRIVER", "")
	t.Setenv("DB_QUERY_TIMEOUT", "")

	cfg := Load()
	if cfg.StoreDriver != "postgres" || cfg.FileDriver != "local" {
		t.Fatalf("drivers = %s/%s", cfg.StoreDriver, cfg.FileDriver)
	}
	if cfg.DBQueryTimeout != 5*time.Second {
		t.Fatalf("query timeout = %v", cfg.DBQueryTimeout)
	}
	if cfg.UploadDir != "uploads/images" {
		t.Fatalf("upload dir = %s", cfg.UploadDir)
	}
}

func TestLoadOverridesAndBadValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("S3_PATH_STYLE", "true")
	t.Setenv("REDIS_DB", "nope")
	t.Setenv("GEOCODE_TIMEOUT", "soon")

	cfg := Load()
	if cfg.StoreDriver != "memory" {
		t.Fatalf("store driver = %s", cfg.StoreDriver)
	}
	if cfg.DBQueryTimeout != 250*time.Millisecond {
		t.Fatalf("query timeout = %v", cfg.DBQueryTimeout)
	}
	if !cfg.S3PathStyle {
		t.Fatalf("expected path style")
	}
	if cfg.RedisDB != 0 || cfg.GeocodeTimeout != 5*time.Second {
		t.Fatalf("bad values should fall back to defaults: db=%d timeout=%v", cfg.RedisDB, cfg.GeocodeTimeout)
	}
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: ""}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("origins = %v", got)
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Fatalf("expected no es addrs")
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got := cfg.PostgresDSN(); got != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Fatalf("dsn = %s", got)
	}
}
