package cache

import (
	"context"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"ratelimit", "auth", "abc"}, "inkpost:ratelimit:auth:abc"},
		{[]string{"single"}, "inkpost:single"},
		{nil, "inkpost:"},
	}

	for _, tt := range tests {
		if got := key(tt.parts...); got != tt.want {
			t.Errorf("key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "http://localhost:6379"); err == nil {
		t.Fatal("expected an error for a non-redis URL scheme")
	}
}
