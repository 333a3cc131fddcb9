package services

import (
	"net/http"
	"testing"
)

func TestIsExpiredCodeError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"invalid_grant", http.StatusBadRequest, `{"error":"invalid_grant"}`, true},
		{"authorization_expired", http.StatusBadRequest, `{"error":"authorization_expired"}`, true},
		{"expired wording", http.StatusUnauthorized, `{"error_description":"The code has expired"}`, true},
		{"uppercase", http.StatusBadRequest, `{"error":"INVALID_GRANT"}`, true},
		{"other 400", http.StatusBadRequest, `{"error":"invalid_request"}`, false},
		{"server error", http.StatusInternalServerError, `{"error":"invalid_grant"}`, false},
		{"empty body", http.StatusBadRequest, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExpiredCodeError(tt.status, tt.body); got != tt.want {
				t.Errorf("isExpiredCodeError(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestOAuthEnabled(t *testing.T) {
	if (&OAuthService{}).Enabled() {
		t.Error("empty config reported enabled")
	}
}
