package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"star answers star", []string{"*"}, "https://anywhere.test", "*"},
		{"star without origin header", []string{"http://localhost:3000", "*"}, "", "*"},
		{"exact origin echoed", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{"match ignores case", []string{"HTTPS://INKPOST.EXAMPLE"}, "https://inkpost.example", "https://inkpost.example"},
		{"blank entries ignored", []string{" ", "https://inkpost.example "}, "https://inkpost.example", "https://inkpost.example"},
		{"subdomain pattern", []string{"*.inkpost.example"}, "https://blog.inkpost.example", "https://blog.inkpost.example"},
		{"subdomain pattern with port", []string{"*.inkpost.example"}, "http://dev.inkpost.example:5173", "http://dev.inkpost.example:5173"},
		{"subdomain pattern rejects lookalike", []string{"*.inkpost.example"}, "https://notinkpost.example", ""},
		{"subdomain pattern rejects apex", []string{"*.inkpost.example"}, "https://inkpost.example", ""},
		{"unknown origin", []string{"https://inkpost.example"}, "https://evil.test", ""},
		{"no origin header", []string{"https://inkpost.example"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compileOrigins(tt.allowed).allowOrigin(tt.origin); got != tt.want {
				t.Errorf("allowOrigin(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}

func serveCORS(t *testing.T, cfg CORSConfig, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(method, "/api/posts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, reached
}

func TestCORS_SimpleRequestPassesThrough(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://inkpost.example"}

	rec, reached := serveCORS(t, cfg, http.MethodGet, "https://inkpost.example")

	if !reached || rec.Code != http.StatusTeapot {
		t.Fatalf("reached = %v, status = %d; want the handler's response", reached, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://inkpost.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}

func TestCORS_StarDoesNotVary(t *testing.T) {
	rec, _ := serveCORS(t, DefaultCORSConfig(), http.MethodGet, "https://anywhere.test")
	if got := rec.Header().Get("Vary"); got != "" {
		t.Errorf("Vary = %q, want none for a literal star", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		wantACO string
	}{
		{"allowed origin", []string{"*"}, "http://localhost:5173", "*"},
		{"unknown origin still 200", []string{"https://inkpost.example"}, "https://evil.test", ""},
		{"no origin still 200", []string{"https://inkpost.example"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCORSConfig()
			cfg.AllowedOrigins = tt.allowed

			rec, reached := serveCORS(t, cfg, http.MethodOptions, tt.origin)

			if reached {
				t.Fatal("preflight reached the router")
			}
			if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
				t.Errorf("status = %d, body = %q; want 200 and empty", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantACO {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantACO)
			}
		})
	}
}

func TestCORS_DefaultHeaders(t *testing.T) {
	rec, _ := serveCORS(t, DefaultCORSConfig(), http.MethodOptions, "http://localhost:3000")

	want := map[string]string{
		"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type, Authorization, X-Requested-With",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Max-Age":           "3600",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORS_ZeroMaxAgeOmitted(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.MaxAge = 0
	cfg.AllowCredentials = false

	rec, _ := serveCORS(t, cfg, http.MethodOptions, "")

	for _, header := range []string{"Access-Control-Max-Age", "Access-Control-Allow-Credentials"} {
		if got := rec.Header().Get(header); got != "" {
			t.Errorf("%s = %q, want none", header, got)
		}
	}
}
