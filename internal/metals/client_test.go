package metals_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/cdmasterk/orcafx/internal/http"
	"github.com/cdmasterk/orcafx/internal/http/ratelimit"
	"github.com/cdmasterk/orcafx/internal/metals"
)

func newAPI(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/latest", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		assert.Equal(t, "XAU,XAG", r.URL.Query().Get("currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(baseURL, key string) *metals.Client {
	hc := httpclient.NewClient(ratelimit.Config{MaxRetries: 0, InitialBackoffMs: 1, MaxBackoffMs: 1})
	return metals.NewClient(hc, baseURL, key)
}

func TestFetchLatestConvertsRates(t *testing.T) {
	srv := newAPI(t, `{"success":true,"base":"EUR","timestamp":1767225600,"rates":{"XAU":0.0004,"XAG":0.04}}`)

	price, err := newClient(srv.URL, "test-key").FetchLatest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2500", price.GoldPerOz.String())
	assert.Equal(t, "25", price.SilverPerOz.String())
	assert.Equal(t, "80.3768", price.GoldPerGram.String())
	assert.Equal(t, "0.8038", price.SilverPerGram.String())
	assert.False(t, price.FetchedAt.IsZero())
}

func TestFetchLatestRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"api failure", `{"success":false,"error":{"statusCode":101,"message":"Invalid API key"}}`, "Invalid API key"},
		{"missing silver", `{"success":true,"rates":{"XAU":0.0004}}`, "XAG"},
		{"zero gold", `{"success":true,"rates":{"XAU":0,"XAG":0.04}}`, "XAU"},
		{"not json", `<html>`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAPI(t, tt.body)
			_, err := newClient(srv.URL, "test-key").FetchLatest(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, err.Error(), "test-key")
		})
	}
}

func TestFetchLatestRequiresKey(t *testing.T) {
	_, err := newClient("http://127.0.0.1:0", "").FetchLatest(context.Background())
	assert.ErrorIs(t, err, metals.ErrMissingAPIKey)
}
