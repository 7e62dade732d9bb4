package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
)

// Config is the elkscene configuration file.
//
// The file lives at ~/.config/elkscene/config.toml (overridable with
// --config) and defines named engines plus the cache and archive backends:
//
//	default_engine = "local"
//
//	[engines.local]
//	kind = "graphviz"
//	layout = "dot"
//
//	[engines.farm]
//	kind = "http"
//	url = "https://layout.internal/api/v1/layout"
//	response = "layout"
//	timeout = "45s"
//
//	[cache]
//	backend = "file"   # file | memory | redis | none
//
//	[archive]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// ELKSCENE_* environment variables override scalar settings, see applyEnv.
type Config struct {
	DefaultEngine string                 `toml:"default_engine"`
	Engines       map[string]EngineEntry `toml:"engines"`
	Cache         CacheSettings          `toml:"cache"`
	Archive       ArchiveSettings        `toml:"archive"`
	Server        ServerSettings         `toml:"server"`
}

// EngineEntry is one named engine in the config file. Timeout is a Go
// duration string ("30s", "2m").
type EngineEntry struct {
	Kind     string   `toml:"kind"`
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	URL      string   `toml:"url"`
	Response string   `toml:"response"`
	Timeout  string   `toml:"timeout"`
	Layout   string   `toml:"layout"`
}

// CacheSettings selects the layout cache backend.
type CacheSettings struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ArchiveSettings selects the run archive. An empty mongo_uri disables
// archiving.
type ArchiveSettings struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerSettings configures the serve command.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// defaultConfigPath returns ~/.config/elkscene/config.toml (or the platform
// equivalent).
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads the configuration file. A missing default file yields the
// zero config; a missing explicit --config path is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return applyEnv(&Config{}), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return applyEnv(&Config{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return applyEnv(&cfg), nil
}

// applyEnv lets ELKSCENE_* variables override scalar settings.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("ELKSCENE_DEFAULT_ENGINE"); v != "" {
		cfg.DefaultEngine = v
	}
	if v := os.Getenv("ELKSCENE_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("ELKSCENE_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("ELKSCENE_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("ELKSCENE_MONGO_URI"); v != "" {
		cfg.Archive.MongoURI = v
	}
	if v := os.Getenv("ELKSCENE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return cfg
}

// resolveEngine turns an --engine value into an engine configuration.
// Named engines from the config file win; otherwise the value is parsed as
// a shorthand:
//
//	graphviz, graphviz:neato     in-process graphviz with the given layout
//	exec:CMD [ARG...]            one-shot subprocess
//	pipe:CMD [ARG...]            long-running subprocess
//	http://..., https://...     remote layout server
//
// An empty value falls back to the config file's default engine, then to
// in-process graphviz.
func resolveEngine(cfg *Config, name string) (engine.Config, error) {
	if name == "" {
		name = cfg.DefaultEngine
	}
	if name == "" {
		return engine.Config{Kind: engine.KindGraphviz}, nil
	}

	if entry, ok := cfg.Engines[name]; ok {
		return entry.toEngine(name)
	}

	switch {
	case name == "graphviz":
		return engine.Config{Kind: engine.KindGraphviz}, nil
	case strings.HasPrefix(name, "graphviz:"):
		return engine.Config{Kind: engine.KindGraphviz, Layout: strings.TrimPrefix(name, "graphviz:")}, nil
	case strings.HasPrefix(name, "exec:"):
		return commandEngine(engine.KindExec, strings.TrimPrefix(name, "exec:"))
	case strings.HasPrefix(name, "pipe:"):
		return commandEngine(engine.KindPipe, strings.TrimPrefix(name, "pipe:"))
	case strings.HasPrefix(name, "http://"), strings.HasPrefix(name, "https://"):
		return engine.Config{Kind: engine.KindHTTP, URL: name}, nil
	}

	return engine.Config{}, errors.New(errors.ErrCodeInvalidConfig,
		"unknown engine %q (not in the config file and not a shorthand)", name)
}

func commandEngine(kind engine.Kind, commandLine string) (engine.Config, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return engine.Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s engine needs a command", kind)
	}
	return engine.Config{Kind: kind, Command: fields[0], Args: fields[1:]}, nil
}

func (e EngineEntry) toEngine(name string) (engine.Config, error) {
	cfg := engine.Config{
		Kind:     engine.Kind(e.Kind),
		Command:  e.Command,
		Args:     e.Args,
		URL:      e.URL,
		Response: e.Response,
		Layout:   e.Layout,
	}
	if e.Timeout != "" {
		d, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return engine.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "engine %s: bad timeout", name)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
