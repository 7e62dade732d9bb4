package engine

import (
	"testing"

	"github.com/elkscene/elkscene/pkg/errors"
)

func TestConfigValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "EmptyDefaultsToGraphviz",
			cfg:  Config{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Kind != KindGraphviz {
					t.Errorf("Kind = %s, want %s", cfg.Kind, KindGraphviz)
				}
				if cfg.Layout != "dot" {
					t.Errorf("Layout = %s, want dot", cfg.Layout)
				}
				if cfg.Response != ResponseLayout {
					t.Errorf("Response = %s, want %s", cfg.Response, ResponseLayout)
				}
				if cfg.Timeout != DefaultTimeout {
					t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
				}
			},
		},
		{
			name: "ExecWithCommand",
			cfg:  Config{Kind: KindExec, Command: "elkjs-cli"},
		},
		{
			name:    "ExecWithoutCommand",
			cfg:     Config{Kind: KindExec},
			wantErr: true,
		},
		{
			name:    "PipeWithoutCommand",
			cfg:     Config{Kind: KindPipe},
			wantErr: true,
		},
		{
			name: "HTTPWithURL",
			cfg:  Config{Kind: KindHTTP, URL: "http://localhost:9090/layout"},
		},
		{
			name:    "HTTPWithoutURL",
			cfg:     Config{Kind: KindHTTP},
			wantErr: true,
		},
		{
			name: "SceneModeOnHTTP",
			cfg:  Config{Kind: KindHTTP, URL: "http://localhost:9090/scene", Response: ResponseScene},
		},
		{
			name:    "SceneModeOnExec",
			cfg:     Config{Kind: KindExec, Command: "elkjs-cli", Response: ResponseScene},
			wantErr: true,
		},
		{
			name:    "UnknownResponseMode",
			cfg:     Config{Kind: KindHTTP, URL: "http://x", Response: "interpretive-dance"},
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			cfg:     Config{Kind: "smoke-signals"},
			wantErr: true,
		},
		{
			name:    "UnknownGraphvizLayout",
			cfg:     Config{Kind: KindGraphviz, Layout: "freestyle"},
			wantErr: true,
		},
		{
			name: "AlternateGraphvizLayout",
			cfg:  Config{Kind: KindGraphviz, Layout: "neato"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateAndSetDefaults()
			if tt.wantErr {
				if err == nil {
					t.Fatal("ValidateAndSetDefaults() should fail")
				}
				if got := errors.GetCode(err); got != errors.ErrCodeInvalidConfig {
					t.Errorf("error code = %s, want %s", got, errors.ErrCodeInvalidConfig)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults() error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.cfg)
			}
		})
	}
}

func TestConfigFingerprint(t *testing.T) {
	a := Config{Kind: KindExec, Command: "elkjs-cli", Args: []string{"--stdio"}}
	b := Config{Kind: KindExec, Command: "elkjs-cli", Args: []string{"--stdio"}}
	c := Config{Kind: KindExec, Command: "elkjs-cli", Args: []string{"--fast"}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical configs must share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different args must change the fingerprint")
	}

	h1 := Config{Kind: KindHTTP, URL: "http://x", Response: ResponseLayout}
	h2 := Config{Kind: KindHTTP, URL: "http://x", Response: ResponseScene}
	if h1.Fingerprint() == h2.Fingerprint() {
		t.Error("response mode must change the fingerprint")
	}
}

func TestNewDispatchesOnKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"Exec", Config{Kind: KindExec, Command: "cat"}, "*engine.ExecTransport"},
		{"Pipe", Config{Kind: KindPipe, Command: "cat"}, "*engine.PipeTransport"},
		{"HTTP", Config{Kind: KindHTTP, URL: "http://localhost:1"}, "*engine.HTTPTransport"},
		{"Graphviz", Config{Kind: KindGraphviz}, "*engine.GraphvizTransport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			defer tr.Close()

			var got string
			switch tr.(type) {
			case *ExecTransport:
				got = "*engine.ExecTransport"
			case *PipeTransport:
				got = "*engine.PipeTransport"
			case *HTTPTransport:
				got = "*engine.HTTPTransport"
			case *GraphvizTransport:
				got = "*engine.GraphvizTransport"
			}
			if got != tt.want {
				t.Errorf("New() built %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewDoesNotMutateCaller(t *testing.T) {
	cfg := Config{Kind: KindGraphviz}
	if _, err := New(cfg); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if cfg.Layout != "" || cfg.Timeout != 0 {
		t.Error("New() must defaults-normalize a copy, not the caller's value")
	}
}

func TestDefaultTimeoutApplied(t *testing.T) {
	tr := NewHTTPTransport("http://localhost:1", 0)
	if tr.client.Timeout != DefaultTimeout {
		t.Errorf("client timeout = %s, want %s", tr.client.Timeout, DefaultTimeout)
	}
}
