package config

import (
	"log/slog"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"MCP_ENV", "NODE_ENV", "MCP_LOG_LEVEL", "MCP_CATALOG_SIZE", "PING_PATH", "MCP_SERVER_VERSION"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{Env: "production", LogLevel: "info", CatalogSize: 100, PingPath: "ping", ServerVersion: "1.0.0"}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
	if cfg.DevelopmentMode() {
		t.Fatalf("production must not enable development mode")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MCP_ENV", "development")
	t.Setenv("MCP_LOG_LEVEL", "debug")
	t.Setenv("MCP_CATALOG_SIZE", "25")
	t.Setenv("PING_PATH", "/sbin/ping")
	t.Setenv("MCP_SERVER_VERSION", "2.0.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DevelopmentMode() {
		t.Fatalf("expected development mode")
	}
	if lvl, _ := cfg.SlogLevel(); lvl != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", lvl)
	}
	if cfg.CatalogSize != 25 || cfg.PingPath != "/sbin/ping" || cfg.ServerVersion != "2.0.0" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	cases := []struct {
		name    string
		mcpEnv  string
		nodeEnv string
		want    string
		dev     bool
	}{
		{name: "neither", want: EnvProduction},
		{name: "node env only", nodeEnv: "development", want: EnvDevelopment, dev: true},
		{name: "mcp env wins", mcpEnv: "production", nodeEnv: "development", want: EnvProduction},
		{name: "mcp env only", mcpEnv: "development", want: EnvDevelopment, dev: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MCP_ENV", tc.mcpEnv)
			t.Setenv("NODE_ENV", tc.nodeEnv)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Env != tc.want || cfg.DevelopmentMode() != tc.dev {
				t.Fatalf("expected env %q (dev=%v), got %q (dev=%v)", tc.want, tc.dev, cfg.Env, cfg.DevelopmentMode())
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"non numeric size": {"MCP_CATALOG_SIZE", "many"},
		"negative size":    {"MCP_CATALOG_SIZE", "-1"},
		"bad level":        {"MCP_LOG_LEVEL", "chatty"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%q to be rejected", kv[0], kv[1])
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := Config{LogLevel: in}.SlogLevel()
		if err != nil {
			t.Fatalf("SlogLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
