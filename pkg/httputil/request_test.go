package httputil

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid json",
			body:    `{"key": "value"}`,
			wantErr: false,
		},
		{
			name:    "invalid json",
			body:    `{invalid}`,
			wantErr: true,
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			var result map[string]any
			err := DecodeJSON(req, &result)

			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var v map[string]any
	if err := DecodeJSON(req, &v); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("DecodeJSON() error = %v, want ErrEmptyBody", err)
	}
}

func TestPrefer(t *testing.T) {
	tests := []struct {
		name      string
		headers   []string
		directive string
		want      bool
	}{
		{name: "single", headers: []string{"return=representation"}, directive: "return=representation", want: true},
		{name: "comma list", headers: []string{"return=representation, count=exact"}, directive: "count=exact", want: true},
		{name: "repeated header", headers: []string{"return=minimal", "count=exact"}, directive: "count=exact", want: true},
		{name: "absent", headers: []string{"return=minimal"}, directive: "return=representation", want: false},
		{name: "no header", directive: "count=exact", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, h := range tt.headers {
				req.Header.Add("Prefer", h)
			}
			if got := Prefer(req, tt.directive); got != tt.want {
				t.Errorf("Prefer(%q) = %v, want %v", tt.directive, got, tt.want)
			}
		})
	}
}
