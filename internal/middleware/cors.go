package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins entries are exact origins, "*.host" subdomain
	// patterns, or "*" which answers every request with a literal "*".
	AllowedOrigins []string

	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	// MaxAge in seconds; zero omits Access-Control-Max-Age.
	MaxAge int
}

// DefaultCORSConfig is what the blog frontend expects.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           3600,
	}
}

// originPolicy is the compiled form of AllowedOrigins.
type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string // ".example.com" for "*.example.com"
}

func compileOrigins(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSpace(o))
		switch {
		case o == "*":
			p.any = true
		case strings.HasPrefix(o, "*."):
			p.suffixes = append(p.suffixes, o[1:])
		case o != "":
			p.exact[o] = struct{}{}
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when the origin is not allowed.
func (p originPolicy) allowOrigin(origin string) string {
	if p.any {
		return "*"
	}
	if origin == "" {
		return ""
	}
	lower := strings.ToLower(origin)
	if _, ok := p.exact[lower]; ok {
		return origin
	}
	if len(p.suffixes) == 0 {
		return ""
	}
	u, err := url.Parse(lower)
	host := ""
	if err == nil {
		host = u.Hostname()
	}
	if host == "" {
		return ""
	}
	for _, suffix := range p.suffixes {
		// The suffix must be preceded by a non-empty label.
		if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			return origin
		}
	}
	return ""
}

// CORS adds CORS headers to every response. OPTIONS on any path is
// answered with 200 and an empty body before the router sees it.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := compileOrigins(cfg.AllowedOrigins)

	static := http.Header{}
	if len(cfg.AllowedMethods) > 0 {
		static.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
	}
	if len(cfg.AllowedHeaders) > 0 {
		static.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	}
	if cfg.AllowCredentials {
		static.Set("Access-Control-Allow-Credentials", "true")
	}
	if cfg.MaxAge > 0 {
		static.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if allowed := policy.allowOrigin(r.Header.Get("Origin")); allowed != "" {
				h.Set("Access-Control-Allow-Origin", allowed)
				if allowed != "*" {
					h.Add("Vary", "Origin")
				}
			}
			for k, v := range static {
				h[k] = append([]string(nil), v...)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
