package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.App.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("APIBaseURL = %q", cfg.App.APIBaseURL)
	}
	if cfg.App.SocketURL != "ws://localhost:5000/ws" {
		t.Errorf("SocketURL = %q", cfg.App.SocketURL)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("Environment = %q", cfg.App.Environment)
	}
	if cfg.App.RequestTimeout != 30 {
		t.Errorf("RequestTimeout = %d", cfg.App.RequestTimeout)
	}
	if cfg.App.SessionPath == "" {
		t.Error("SessionPath is empty")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api")
	t.Setenv("SOCKET_URL", "wss://api.example.com/ws")
	t.Setenv("GO_ENV", "production")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("ORGANIZATION_ID", "org-1")

	cfg := Load()

	if cfg.App.APIBaseURL != "https://api.example.com/api" {
		t.Errorf("APIBaseURL = %q", cfg.App.APIBaseURL)
	}
	if cfg.App.SocketURL != "wss://api.example.com/ws" {
		t.Errorf("SocketURL = %q", cfg.App.SocketURL)
	}
	if cfg.App.Environment != "production" {
		t.Errorf("Environment = %q", cfg.App.Environment)
	}
	if cfg.App.RequestTimeout != 5 {
		t.Errorf("RequestTimeout = %d", cfg.App.RequestTimeout)
	}
	if cfg.App.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %q", cfg.App.OrganizationID)
	}
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")
	cfg := Load()
	if cfg.App.RequestTimeout != 30 {
		t.Errorf("RequestTimeout = %d, want fallback 30", cfg.App.RequestTimeout)
	}
}
