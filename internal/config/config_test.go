package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studyquest_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("EMAIL_WORKERS", "")
	t.Setenv("SMTP_FROM", "")
	t.Setenv("FRONTEND_URL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.EmailWorkers != 2 {
		t.Errorf("Expected 2 default email workers, got %d", cfg.EmailWorkers)
	}
	if cfg.SMTPFrom != "noreply@studyquest.app" {
		t.Errorf("Unexpected default SMTP sender: %q", cfg.SMTPFrom)
	}
	if cfg.FrontendURL != "http://localhost:5173" {
		t.Errorf("Unexpected default frontend URL: %q", cfg.FrontendURL)
	}
	if cfg.DatabaseURL != "postgres://localhost/studyquest_test" {
		t.Errorf("Required var not read: %q", cfg.DatabaseURL)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("STUDYQUEST_TEST_STR", "from-env")

	if got := getEnvOrDefault("STUDYQUEST_TEST_STR", "fallback"); got != "from-env" {
		t.Errorf("Expected env value, got %q", got)
	}
	if got := getEnvOrDefault("STUDYQUEST_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		expected int
	}{
		{"parses integer", "7", 2, 7},
		{"empty uses fallback", "", 2, 2},
		{"garbage uses fallback", "seven", 2, 2},
		{"negative parses", "-1", 2, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.value != "" {
				t.Setenv("STUDYQUEST_TEST_INT", tc.value)
			} else {
				t.Setenv("STUDYQUEST_TEST_INT", "")
			}

			if got := getEnvAsIntOrDefault("STUDYQUEST_TEST_INT", tc.fallback); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMustGetEnv(t *testing.T) {
	t.Setenv("STUDYQUEST_TEST_REQUIRED", "present")
	if got := mustGetEnv("STUDYQUEST_TEST_REQUIRED"); got != "present" {
		t.Errorf("Expected 'present', got %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a missing required variable")
		}
	}()
	mustGetEnv("STUDYQUEST_TEST_MISSING")
}
