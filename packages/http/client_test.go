package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Get(context.Background(), server.URL+"/test", nil)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.StatusText())
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 123}`))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Post(context.Background(), server.URL, []byte(`{"name": "test"}`), map[string]string{
		"Content-Type": "application/json",
	})

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "123")
}

func TestClient_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	_, err := client.Get(context.Background(), server.URL, nil)

	assert.Error(t, err)
}

func TestClient_WithDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithDefaultHeaders(map[string]string{
		"Authorization": "test-token",
		"User-Agent":    "custom-agent",
	}))
	resp, err := client.Get(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(WithFollowRedirects(false))
	resp, err := client.Get(context.Background(), server.URL+"/redirect", nil)

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
}

func TestClient_WithMaxRedirects(t *testing.T) {
	var hops atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops.Add(1)
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(WithMaxRedirects(2))
	resp, err := client.Get(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, int32(2), hops.Load())

	// zero keeps the default cap
	hops.Store(0)
	resp, err = NewClient(WithMaxRedirects(0)).Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, int32(DefaultMaxRedirects), hops.Load())
}

func TestClient_WithRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(20))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
	}

	// burst of one, then one token every 50ms
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		errMsg  string
	}{
		{name: "valid http URL", url: "http://example.com/path"},
		{name: "valid https URL", url: "https://example.com/path"},
		{name: "invalid scheme", url: "ftp://example.com", wantErr: true, errMsg: "unsupported URL scheme"},
		{name: "missing scheme", url: "example.com/path", wantErr: true, errMsg: "unsupported URL scheme"},
		{name: "missing host", url: "http:///path", wantErr: true, errMsg: "URL must have a host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	got, err := ResolveURL("http://localhost:3000", "/user/1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/user/1", got)

	got, err = ResolveURL("http://localhost:3000/", "/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/", got)

	_, err = ResolveURL("  ", "/")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, MissingAPIURL, cfgErr.Error())

	_, err = ResolveURL("localhost:3000", "/")
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "Invalid API URL")
}

func TestClient_Send(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   string
		ctype  string
	}
	var got seen
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = seen{r.Method, r.URL.Path, string(body), r.Header.Get("Content-Type")}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/user/999" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"User not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient()
	c := catalog.Default()

	t.Run("GET carries no body", func(t *testing.T) {
		step, _ := c.Get("get-user-valid")
		_, err := client.Send(context.Background(), server.URL, step)
		require.NoError(t, err)
		assert.Equal(t, seen{"GET", "/user/1", "", ""}, got)
	})

	t.Run("POST sends the JSON body", func(t *testing.T) {
		step, _ := c.Get("post-user-valid")
		_, err := client.Send(context.Background(), server.URL, step)
		require.NoError(t, err)
		assert.Equal(t, "POST", got.method)
		assert.Equal(t, "application/json", got.ctype)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(got.body), &body))
		assert.Equal(t, map[string]any{"name": "John Doe", "age": float64(25)}, body)
	})

	t.Run("PUT sends the JSON body", func(t *testing.T) {
		step, _ := c.Get("put-user-valid")
		_, err := client.Send(context.Background(), server.URL, step)
		require.NoError(t, err)
		assert.Equal(t, "PUT", got.method)
		assert.Contains(t, got.body, "John Doe Updated")
	})

	t.Run("DELETE carries no body", func(t *testing.T) {
		step, _ := c.Get("delete-user-valid")
		_, err := client.Send(context.Background(), server.URL, step)
		require.NoError(t, err)
		assert.Equal(t, seen{"DELETE", "/user/2", "", ""}, got)
	})

	t.Run("error status still returns the response", func(t *testing.T) {
		step, _ := c.Get("get-user-invalid")
		resp, err := client.Send(context.Background(), server.URL, step)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var serverErr *ServerError
		require.ErrorAs(t, CheckStatus(resp), &serverErr)
		assert.Equal(t, 404, serverErr.Response.StatusCode)
	})
}

func TestClient_Send_MissingBaseURLSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	step, _ := catalog.Default().Get("root")
	_, err := NewClient().Send(context.Background(), "", step)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Missing API URL", err.Error())
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_Send_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	step, _ := catalog.Default().Get("root")
	_, err := NewClient(WithTimeout(time.Second)).Send(context.Background(), url, step)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "GET", transportErr.Method)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
		if tt.expected {
			assert.NoError(t, CheckStatus(resp))
		} else {
			assert.Error(t, CheckStatus(resp))
		}
	}
}

func TestResponse_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		resp := &Response{Headers: map[string]string{"Content-Type": tt.contentType}}
		assert.Equal(t, tt.expected, resp.IsJSON(), "Content-Type: %s", tt.contentType)
	}
}
