package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUpstream fakes Nominatim and counts how many calls reach it
type stubUpstream struct {
	calls  int64
	status int
	body   string
	gotUA  string
}

func (s *stubUpstream) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.calls, 1)
		s.gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(s.status)
		w.Write([]byte(s.body))
	}))
}

func doReverse(t *testing.T, client *Client, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reverse?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHandler(client)
	require.NoError(t, h.Reverse(c))
	return rec
}

func TestReverseMissingParamsSkipsUpstream(t *testing.T) {
	upstream := &stubUpstream{status: http.StatusOK, body: `{}`}
	srv := upstream.server()
	defer srv.Close()

	client := NewClient(srv.URL, "FURS-Test/1.0")

	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=121.0"},
		{"missing lon", "lat=14.6"},
		{"missing both", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReverse(t, client, tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Missing lat/lon"}`, rec.Body.String())
		})
	}

	assert.Equal(t, int64(0), atomic.LoadInt64(&upstream.calls), "no upstream call may be issued")
}

func TestReverseRelaysUpstreamBodyVerbatim(t *testing.T) {
	body := `{"display_name":"Quezon City, Metro Manila, Philippines","lat":"14.6","lon":"121.0"}`
	upstream := &stubUpstream{status: http.StatusOK, body: body}
	srv := upstream.server()
	defer srv.Close()

	client := NewClient(srv.URL, "FURS-Test/1.0")
	rec := doReverse(t, client, "lat=14.6&lon=121.0")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
	assert.Equal(t, int64(1), atomic.LoadInt64(&upstream.calls))
	assert.Equal(t, "FURS-Test/1.0", upstream.gotUA)
}

func TestReverseUpstreamFailuresMapToGenericError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"upstream 500", http.StatusInternalServerError, `{"error":"boom"}`},
		{"upstream non-JSON", http.StatusOK, "<html>not json</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &stubUpstream{status: tt.status, body: tt.body}
			srv := upstream.server()
			defer srv.Close()

			client := NewClient(srv.URL, "FURS-Test/1.0")
			rec := doReverse(t, client, "lat=14.6&lon=121.0")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"Failed to fetch from Nominatim"}`, rec.Body.String())
		})
	}
}

func TestReverseUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "FURS-Test/1.0")
	rec := doReverse(t, client, "lat=14.6&lon=121.0")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch from Nominatim"}`, rec.Body.String())
}

func TestResolveAddress(t *testing.T) {
	upstream := &stubUpstream{status: http.StatusOK, body: `{"display_name":"Makati, Metro Manila"}`}
	srv := upstream.server()
	defer srv.Close()

	client := NewClient(srv.URL, "FURS-Test/1.0")
	address, err := client.ResolveAddress(context.Background(), 14.55, 121.02)

	require.NoError(t, err)
	assert.Equal(t, "Makati, Metro Manila", address)
}

func TestResolveAddressMissingDisplayName(t *testing.T) {
	upstream := &stubUpstream{status: http.StatusOK, body: `{"error":"Unable to geocode"}`}
	srv := upstream.server()
	defer srv.Close()

	client := NewClient(srv.URL, "FURS-Test/1.0")
	_, err := client.ResolveAddress(context.Background(), 0, 0)

	assert.Error(t, err)
}
