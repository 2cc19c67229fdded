package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.JimakuDomain != DefaultJimakuDomain {
		t.Errorf("Expected default domain, got %q", cfg.JimakuDomain)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.ClientTimeout != "30s" {
		t.Errorf("Expected default client timeout, got %q", cfg.ClientTimeout)
	}
	if cfg.RateLimit.Interval != "1s" {
		t.Errorf("Expected default rate limit interval, got %q", cfg.RateLimit.Interval)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("Expected default retry count, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Cache.Provider != "memory" {
		t.Errorf("Expected default cache provider, got %q", cfg.Cache.Provider)
	}
	if cfg.Cache.Size != 512 {
		t.Errorf("Expected default cache size, got %d", cfg.Cache.Size)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JIMAKU_API_KEY", "key-from-env")
	t.Setenv("APP_CACHE_SIZE", "64")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIKey != "key-from-env" {
		t.Errorf("Expected API key from environment, got %q", cfg.APIKey)
	}
	if cfg.Cache.Size != 64 {
		t.Errorf("Expected cache size from environment, got %d", cfg.Cache.Size)
	}
}

func TestConfigureLoggingInvalidLevel(t *testing.T) {
	cfg := &Config{LogLevel: "not-a-level"}
	// Must fall back to info without panicking.
	ConfigureLogging(cfg)

	cfg.LogLevel = "debug"
	ConfigureLogging(cfg)
}
