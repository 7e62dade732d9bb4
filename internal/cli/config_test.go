package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
)

// clearConfigEnv blanks every ELKSCENE_* override for the test's duration.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"ELKSCENE_DEFAULT_ENGINE",
		"ELKSCENE_CACHE_BACKEND",
		"ELKSCENE_CACHE_DIR",
		"ELKSCENE_REDIS_ADDR",
		"ELKSCENE_MONGO_URI",
		"ELKSCENE_ADDR",
	} {
		t.Setenv(v, "")
	}
}

const configFixture = `
default_engine = "farm"

[engines.local]
kind = "graphviz"
layout = "neato"

[engines.farm]
kind = "http"
url = "https://layout.internal/api/v1/layout"
response = "scene"
timeout = "45s"

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[archive]
mongo_uri = "mongodb://localhost:27017"
database = "elk"

[server]
addr = ":9090"
`

func writeConfigFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFixture(t, configFixture)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.DefaultEngine != "farm" {
		t.Errorf("DefaultEngine = %q, want %q", cfg.DefaultEngine, "farm")
	}
	if len(cfg.Engines) != 2 {
		t.Fatalf("len(Engines) = %d, want 2", len(cfg.Engines))
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %q, want %q", cfg.Cache.RedisAddr, "localhost:6379")
	}
	if cfg.Archive.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Archive.MongoURI = %q", cfg.Archive.MongoURI)
	}
	if cfg.Archive.Database != "elk" {
		t.Errorf("Archive.Database = %q, want %q", cfg.Archive.Database, "elk")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
}

func TestLoadConfigEngineEntries(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFixture(t, configFixture)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	local, err := cfg.Engines["local"].toEngine("local")
	if err != nil {
		t.Fatalf("toEngine(local) error = %v", err)
	}
	if local.Kind != engine.KindGraphviz {
		t.Errorf("local.Kind = %q, want %q", local.Kind, engine.KindGraphviz)
	}
	if local.Layout != "neato" {
		t.Errorf("local.Layout = %q, want %q", local.Layout, "neato")
	}

	farm, err := cfg.Engines["farm"].toEngine("farm")
	if err != nil {
		t.Fatalf("toEngine(farm) error = %v", err)
	}
	if farm.Kind != engine.KindHTTP {
		t.Errorf("farm.Kind = %q, want %q", farm.Kind, engine.KindHTTP)
	}
	if farm.URL != "https://layout.internal/api/v1/layout" {
		t.Errorf("farm.URL = %q", farm.URL)
	}
	if farm.Response != engine.ResponseScene {
		t.Errorf("farm.Response = %q, want %q", farm.Response, engine.ResponseScene)
	}
	if farm.Timeout != 45*time.Second {
		t.Errorf("farm.Timeout = %v, want 45s", farm.Timeout)
	}
}

func TestLoadConfigMissingDefaultIsZero(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.DefaultEngine != "" || len(cfg.Engines) != 0 {
		t.Errorf("missing default config should be zero, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitFails(t *testing.T) {
	clearConfigEnv(t)

	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("loadConfig() with a missing explicit path should fail")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFixture(t, "default_engine = [broken")

	_, err := loadConfig(path)
	if err == nil {
		t.Fatal("loadConfig() with invalid TOML should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ELKSCENE_DEFAULT_ENGINE", "remote")
	t.Setenv("ELKSCENE_CACHE_BACKEND", "none")
	t.Setenv("ELKSCENE_CACHE_DIR", "/tmp/elkcache")
	t.Setenv("ELKSCENE_REDIS_ADDR", "redis:6379")
	t.Setenv("ELKSCENE_MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("ELKSCENE_ADDR", ":7070")

	path := writeConfigFixture(t, configFixture)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.DefaultEngine != "remote" {
		t.Errorf("DefaultEngine = %q, want env override %q", cfg.DefaultEngine, "remote")
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "none")
	}
	if cfg.Cache.Dir != "/tmp/elkcache" {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache.RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Archive.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("Archive.MongoURI = %q", cfg.Archive.MongoURI)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestResolveEngine(t *testing.T) {
	cfg := &Config{
		DefaultEngine: "local",
		Engines: map[string]EngineEntry{
			"local": {Kind: "graphviz", Layout: "dot"},
		},
	}

	tests := []struct {
		name    string
		engine  string
		want    engine.Config
		wantErr bool
	}{
		{
			name:   "empty uses config default",
			engine: "",
			want:   engine.Config{Kind: engine.KindGraphviz, Layout: "dot"},
		},
		{
			name:   "named engine",
			engine: "local",
			want:   engine.Config{Kind: engine.KindGraphviz, Layout: "dot"},
		},
		{
			name:   "graphviz shorthand",
			engine: "graphviz",
			want:   engine.Config{Kind: engine.KindGraphviz},
		},
		{
			name:   "graphviz with layout",
			engine: "graphviz:fdp",
			want:   engine.Config{Kind: engine.KindGraphviz, Layout: "fdp"},
		},
		{
			name:   "exec shorthand",
			engine: "exec:elk-layout --fast",
			want:   engine.Config{Kind: engine.KindExec, Command: "elk-layout", Args: []string{"--fast"}},
		},
		{
			name:   "pipe shorthand",
			engine: "pipe:elkd",
			want:   engine.Config{Kind: engine.KindPipe, Command: "elkd"},
		},
		{
			name:   "http shorthand",
			engine: "http://localhost:8080",
			want:   engine.Config{Kind: engine.KindHTTP, URL: "http://localhost:8080"},
		},
		{
			name:    "exec without command",
			engine:  "exec:",
			wantErr: true,
		},
		{
			name:    "unknown name",
			engine:  "mystery",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEngine(cfg, tt.engine)
			if tt.wantErr {
				if err == nil {
					t.Fatal("resolveEngine() should fail")
				}
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveEngine() error = %v", err)
			}
			if got.Kind != tt.want.Kind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.want.Kind)
			}
			if got.Command != tt.want.Command {
				t.Errorf("Command = %q, want %q", got.Command, tt.want.Command)
			}
			if got.URL != tt.want.URL {
				t.Errorf("URL = %q, want %q", got.URL, tt.want.URL)
			}
			if got.Layout != tt.want.Layout {
				t.Errorf("Layout = %q, want %q", got.Layout, tt.want.Layout)
			}
			if len(got.Args) != len(tt.want.Args) {
				t.Errorf("Args = %v, want %v", got.Args, tt.want.Args)
			}
		})
	}
}

func TestResolveEngineNoDefaultFallsBackToGraphviz(t *testing.T) {
	got, err := resolveEngine(&Config{}, "")
	if err != nil {
		t.Fatalf("resolveEngine() error = %v", err)
	}
	if got.Kind != engine.KindGraphviz {
		t.Errorf("Kind = %q, want %q", got.Kind, engine.KindGraphviz)
	}
}

func TestEngineEntryBadTimeout(t *testing.T) {
	entry := EngineEntry{Kind: "http", URL: "http://x", Timeout: "banana"}

	_, err := entry.toEngine("bad")
	if err == nil {
		t.Fatal("toEngine() with a bad timeout should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := defaultConfigPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	want := filepath.Join("elkscene", "config.toml")
	if !strings.HasSuffix(path, want) {
		t.Errorf("defaultConfigPath() = %q, want suffix %q", path, want)
	}
}
