package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME at an empty directory and clears every variable Load
// reads so the developer's environment cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		"BIGBITE_CONFIG", "BIGBITE_API_URL", "VITE_API_URL",
		"BIGBITE_SPEECH_KEY", "AZURE_SPEECH_KEY",
		"BIGBITE_SPEECH_REGION", "AZURE_SPEECH_REGION",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.URL != DefaultAPIURL {
		t.Fatalf("expected default URL %s, got %s", DefaultAPIURL, cfg.API.URL)
	}
	if cfg.SpeechEnabled() {
		t.Fatal("speech should be disabled without credentials")
	}
	if !cfg.Speech.DiskCache {
		t.Fatal("disk cache should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"prefixed", map[string]string{"BIGBITE_API_URL": "https://bigbite.example.com/"}, "https://bigbite.example.com"},
		{"vite fallback", map[string]string{"VITE_API_URL": "http://10.0.0.2:5000"}, "http://10.0.0.2:5000"},
		{"prefixed wins", map[string]string{"BIGBITE_API_URL": "http://a:1", "VITE_API_URL": "http://b:2"}, "http://a:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.API.URL != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, cfg.API.URL)
			}
		})
	}
}

func TestLoadSpeechCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("AZURE_SPEECH_KEY", "k")
	t.Setenv("AZURE_SPEECH_REGION", "westeurope")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.SpeechEnabled() {
		t.Fatal("expected speech to be enabled")
	}
	if cfg.Speech.Region != "westeurope" {
		t.Fatalf("unexpected region %q", cfg.Speech.Region)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[api]\nurl = \"http://kitchen.local:8080\"\n\n[speech]\nvoice = \"en-GB-SoniaNeural\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BIGBITE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.URL != "http://kitchen.local:8080" {
		t.Fatalf("unexpected URL %s", cfg.API.URL)
	}
	if cfg.Speech.Voice != "en-GB-SoniaNeural" {
		t.Fatalf("unexpected voice %s", cfg.Speech.Voice)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("BIGBITE_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	isolate(t)
	t.Setenv("BIGBITE_API_URL", "not a url")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "url") {
		t.Fatalf("expected error to mention url, got %v", err)
	}
}
