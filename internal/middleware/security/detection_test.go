package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		userAgent  string
		suspicious bool
	}{
		{"plain api read", http.MethodGet, "/api/transactions?type=expense", "Mozilla/5.0", false},
		{"path traversal", http.MethodGet, "/api/../etc/passwd", "Mozilla/5.0", true},
		{"env file fishing", http.MethodGet, "/.env", "Mozilla/5.0", true},
		{"admin panel fishing", http.MethodGet, "/wp-admin/setup.php", "Mozilla/5.0", true},
		{"script in query", http.MethodGet, "/api/transactions?q=<script>alert(1)</script>", "Mozilla/5.0", true},
		{"scanner user agent", http.MethodGet, "/api/categories", "sqlmap/1.7", true},
		{"curl allowed", http.MethodGet, "/api/categories", "curl/8.4.0", false},
		{"trace method", "TRACE", "/api/categories", "Mozilla/5.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.userAgent)
			if got := d.DetectSuspiciousRequest(r); got != tt.suspicious {
				t.Fatalf("DetectSuspiciousRequest() = %v, want %v", got, tt.suspicious)
			}
			want := int64(0)
			if tt.suspicious {
				want = 1
			}
			if got := d.GetMetrics().SuspiciousRequests; got != want {
				t.Fatalf("SuspiciousRequests = %d, want %d", got, want)
			}
		})
	}
}

func TestDetectSuspiciousRequestForwardingChain(t *testing.T) {
	d := NewDetector()
	r := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	r.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2, 3.3.3.3, 4.4.4.4, 5.5.5.5, 6.6.6.6, 7.7.7.7")
	if !d.DetectSuspiciousRequest(r) {
		t.Fatal("expected an overlong forwarding chain to be flagged")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{"direct connection", "203.0.113.9:4312", "", "", "203.0.113.9"},
		{"trusted proxy with xff", "10.0.0.5:80", "198.51.100.7, 10.0.0.5", "", "198.51.100.7"},
		{"trusted proxy with x-real-ip", "127.0.0.1:80", "", "198.51.100.8", "198.51.100.8"},
		{"untrusted peer ignores xff", "203.0.113.9:80", "198.51.100.7", "", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Fatalf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractClientIPCountsInvalidForwardedIP(t *testing.T) {
	d := NewDetector()
	r := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	r.RemoteAddr = "127.0.0.1:4312"
	r.Header.Set("X-Forwarded-For", "not-an-ip")

	if got := d.ExtractClientIP(r); got != "127.0.0.1" {
		t.Fatalf("expected fallback to direct IP, got %q", got)
	}
	if got := d.GetMetrics().InvalidIPAttempts; got != 1 {
		t.Fatalf("InvalidIPAttempts = %d, want 1", got)
	}
}
