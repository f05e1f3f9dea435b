package explorer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/blocks/height", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"data":{"height":1234567}}`))
	})
	mux.HandleFunc("/v1/hotspots/112abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"block":1234500,"name":"shiny-blue-fox","status":{"online":"online"}}}`))
	})
	mux.HandleFunc("/v1/hotspots/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/v1/hotspots/noblock", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"block":null,"name":"shiny-blue-fox"}}`))
	})
	mux.HandleFunc("/v1/hotspots/nodata", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/v1/hotspots/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNetworkHeight(t *testing.T) {
	srv := newTestServer(t)
	clnt := NewClient(Settings{BaseURL: srv.URL + "/"})

	height, err := clnt.NetworkHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), height)
}

func TestDeviceHeight(t *testing.T) {
	srv := newTestServer(t)
	clnt := NewClient(Settings{BaseURL: srv.URL, RequestsPerSecond: 100})

	height, err := clnt.DeviceHeight(context.Background(), "112abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1234500), height)
}

func TestDeviceHeightRemoteError(t *testing.T) {
	srv := newTestServer(t)
	clnt := NewClient(Settings{BaseURL: srv.URL})

	_, err := clnt.DeviceHeight(context.Background(), "broken")
	require.Error(t, err)

	var remoteErr *models.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusInternalServerError, remoteErr.Status)
	assert.Equal(t, "Internal Server Error", remoteErr.Reason)
}

func TestDeviceHeightBadBody(t *testing.T) {
	srv := newTestServer(t)
	clnt := NewClient(Settings{BaseURL: srv.URL})

	_, err := clnt.DeviceHeight(context.Background(), "garbage")
	require.Error(t, err)
	var remoteErr *models.RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}

func TestDeviceHeightEmptyAddress(t *testing.T) {
	clnt := NewClient(Settings{BaseURL: "http://127.0.0.1:1"})
	_, err := clnt.DeviceHeight(context.Background(), "")
	assert.Error(t, err)
}

func TestTransportError(t *testing.T) {
	srv := newTestServer(t)
	srv.Close()

	clnt := NewClient(Settings{BaseURL: srv.URL})
	_, err := clnt.NetworkHeight(context.Background())
	assert.Error(t, err)
}

func TestDeviceHeightMissingBlock(t *testing.T) {
	srv := newTestServer(t)
	clnt := NewClient(Settings{BaseURL: srv.URL})

	for _, address := range []string{"noblock", "nodata"} {
		height, err := clnt.DeviceHeight(context.Background(), address)
		assert.ErrorIs(t, err, ErrMissingField, address)
		assert.Zero(t, height)
	}
}

func TestNetworkHeightMissingHeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	clnt := NewClient(Settings{BaseURL: srv.URL})
	_, err := clnt.NetworkHeight(context.Background())
	assert.ErrorIs(t, err, ErrMissingField)
}
