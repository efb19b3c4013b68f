package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckNewer(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.3.0"}`)
	got := Check(context.Background(), srv.URL, "v1.2.0")
	if got == nil || got.LatestVersion != "1.3.0" {
		t.Errorf("expected 1.3.0, got %+v", got)
	}
}

func TestCheckUpToDate(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.2.0"}`)
	if got := Check(context.Background(), srv.URL, "1.2.0"); got != nil {
		t.Errorf("expected nil when current, got %+v", got)
	}
}

func TestCheckIgnoresDevBuilds(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.2.0"}`)
	if got := Check(context.Background(), srv.URL, "dev"); got != nil {
		t.Errorf("expected nil for dev build, got %+v", got)
	}
}

func TestCheckErrorsAreSilent(t *testing.T) {
	srv := releaseServer(t, http.StatusNotFound, `{}`)
	if got := Check(context.Background(), srv.URL, "1.0.0"); got != nil {
		t.Errorf("expected nil on 404, got %+v", got)
	}
	bad := releaseServer(t, http.StatusOK, `not json`)
	if got := Check(context.Background(), bad.URL, "1.0.0"); got != nil {
		t.Errorf("expected nil on bad body, got %+v", got)
	}
}

func TestCheckIgnoresOlderRelease(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.2.0"}`)
	if got := Check(context.Background(), srv.URL, "v1.10.0"); got != nil {
		t.Errorf("expected nil when running a newer build, got %+v", got)
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.3.0", "1.2.0", true},
		{"1.10.0", "1.9.3", true},
		{"2.0", "1.9.9", true},
		{"1.2.0", "1.2.0", false},
		{"1.2.0", "1.2.0-rc1", false},
		{"1.1.9", "1.2.0", false},
		{"nightly", "1.2.0", true},
		{"nightly", "nightly", false},
	}
	for _, tt := range tests {
		if got := newer(tt.latest, tt.current); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}
