package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifi-control/whal/internal/simplelink"
	"github.com/wifi-control/whal/internal/simplelink/simulator"
	"github.com/wifi-control/whal/internal/wifi"
)

func newTestServer(t *testing.T) (*simulator.Simulator, http.Handler) {
	t.Helper()
	sim := simulator.New()
	cfg := wifi.DefaultConfig()
	cfg.ScanWindow = time.Millisecond
	cfg.APIPAcquireTimeout = 50 * time.Millisecond
	cfg.APIPPollInterval = time.Millisecond
	hal := wifi.New(sim, cfg, zerolog.Nop())
	require.NoError(t, hal.On(context.Background()))
	return sim, NewRouter(hal, zerolog.Nop(), Options{MaxScanResults: 10})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Result)
	assert.NotEmpty(t, resp.RequestID)
}

func TestConnectFlow(t *testing.T) {
	sim, h := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/connect", networkRequest{
		SSID: "HomeNet", Password: "hunter22", Security: "wpa2",
	})
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)
	assert.Equal(t, []byte("HomeNet"), sim.ConnectedSSID())

	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["connected"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/disconnect", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConnectBadInput(t *testing.T) {
	_, h := newTestServer(t)

	t.Run("unknown security", func(t *testing.T) {
		rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/connect", networkRequest{
			SSID: "x", Password: "y", Security: "wpa3",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", resp.Code)
	})

	t.Run("empty ssid maps to failure", func(t *testing.T) {
		rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/connect", networkRequest{
			Password: "y", Security: "wpa2",
		})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "FAILURE", resp.Code)
	})
}

func TestScanEndpoint(t *testing.T) {
	sim, h := newTestServer(t)
	sim.SetNetworks([]simplelink.NetworkEntry{
		makeEntry("CoffeeShop", 6, -40, simplelink.SecWPAWPA2, false),
		makeEntry("Library", 11, -70, simplelink.SecOpen, false),
	})

	rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/scan?count=5", nil)
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)

	data := resp.Data.(map[string]interface{})
	networks := data["networks"].([]interface{})
	require.Len(t, networks, 2)
	first := networks[0].(map[string]interface{})
	assert.Equal(t, "CoffeeShop", first["ssid"])
	assert.Equal(t, "wpa2", first["security"])
}

func TestScanCountValidation(t *testing.T) {
	_, h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/scan?count=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/profiles", networkRequest{
		SSID: "Office", Password: "s3cret", Security: "wpa2",
	})
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)
	index := int(resp.Data.(map[string]interface{})["index"].(float64))

	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/profiles/"+strconv.Itoa(index), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entry := resp.Data.(map[string]interface{})
	assert.Equal(t, "Office", entry["ssid"])
	// Password is never echoed back.
	_, hasPassword := entry["password"]
	assert.False(t, hasPassword)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/profiles/"+strconv.Itoa(index), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/profiles/"+strconv.Itoa(index), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "FAILURE", resp.Code)
}

func TestModeEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/mode", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "station", resp.Data.(map[string]interface{})["mode"])

	rec, resp = doJSON(t, h, http.MethodPost, "/api/v1/mode", modeRequest{Mode: "p2p"})
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/mode", modeRequest{Mode: "repeater"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetModeAPTimeout(t *testing.T) {
	sim, h := newTestServer(t)
	sim.SetNeverAcquireAPIP(true)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/mode", modeRequest{Mode: "ap"})
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "TIMEOUT", resp.Code)
}

func TestPowerEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/power", powerRequest{Mode: "low-power"})
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/power", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "low-power", resp.Data.(map[string]interface{})["mode"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/power", powerRequest{Mode: "hibernate"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddressEndpoints(t *testing.T) {
	sim, h := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/ip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "192.168.1.100", resp.Data.(map[string]interface{})["ip"])

	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/mac", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "08:00:28:5a:7b:9c", resp.Data.(map[string]interface{})["mac"])

	sim.SetHostAddress("gateway.local", 0xC0A80101)
	rec, resp = doJSON(t, h, http.MethodGet, "/api/v1/resolve?host=gateway.local", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "192.168.1.1", resp.Data.(map[string]interface{})["ip"])

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/resolve?host=unknown.example", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/resolve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func makeEntry(ssid string, channel uint8, rssi int8, sec simplelink.Security, hidden bool) simplelink.NetworkEntry {
	var e simplelink.NetworkEntry
	copy(e.SSID[:], ssid)
	e.SSIDLen = uint8(len(ssid))
	e.Channel = channel
	e.RSSI = rssi
	e.SecurityInfo = simplelink.PackSecurityInfo(sec, hidden)
	return e
}
