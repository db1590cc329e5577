package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wifi-control/whal/internal/wifi"
)

type networkRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`
	Channel  uint8  `json:"channel"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type powerRequest struct {
	Mode string `json:"mode"`
}

type scanEntry struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid"`
	Channel  uint8  `json:"channel"`
	RSSI     int8   `json:"rssi"`
	Security string `json:"security"`
	Hidden   bool   `json:"hidden"`
}

type profileEntry struct {
	Index    int    `json:"index"`
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid"`
	Security string `json:"security"`
}

func parseSecurity(s string) (wifi.SecurityType, error) {
	switch s {
	case "open":
		return wifi.SecurityOpen, nil
	case "wep":
		return wifi.SecurityWEP, nil
	case "wpa":
		return wifi.SecurityWPA, nil
	case "", "wpa2":
		return wifi.SecurityWPA2, nil
	}
	return 0, fmt.Errorf("unknown security type %q", s)
}

func parseMode(s string) (wifi.DeviceMode, error) {
	switch s {
	case "station":
		return wifi.ModeStation, nil
	case "ap":
		return wifi.ModeAP, nil
	case "p2p":
		return wifi.ModeP2P, nil
	}
	return 0, fmt.Errorf("unknown device mode %q", s)
}

func parsePMMode(s string) (wifi.PMMode, error) {
	switch s {
	case "normal":
		return wifi.PMNormal, nil
	case "low-power":
		return wifi.PMLowPower, nil
	case "always-on":
		return wifi.PMAlwaysOn, nil
	}
	return 0, fmt.Errorf("unknown power mode %q", s)
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func formatIP(addr [4]byte) string {
	return net.IPv4(addr[0], addr[1], addr[2], addr[3]).String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, map[string]interface{}{
		"status":    "ok",
		"connected": s.hal.IsConnected(),
	})
}

func (s *Server) handleOn(w http.ResponseWriter, r *http.Request) {
	if err := s.hal.On(r.Context()); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleOff(w http.ResponseWriter, r *http.Request) {
	if err := s.hal.Off(r.Context()); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.hal.Reset(r.Context()); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	sec, err := parseSecurity(req.Security)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	params := wifi.NetworkParams{
		SSID:     []byte(req.SSID),
		Password: []byte(req.Password),
		Security: sec,
	}
	if err := s.hal.Connect(r.Context(), params); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.hal.Disconnect(r.Context()); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := s.hal.Mode(r.Context())
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]string{"mode": mode.String()})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if err := s.hal.SetMode(r.Context(), mode); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	count := s.opts.MaxScanResults
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, r, "count must be a non-negative integer")
			return
		}
		if n < count {
			count = n
		}
	}

	out := make([]wifi.ScanResult, count)
	if err := s.hal.Scan(r.Context(), out); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}

	entries := make([]scanEntry, 0, len(out))
	for _, res := range out {
		if res.SSID == "" && res.Channel == 0 {
			continue
		}
		entries = append(entries, scanEntry{
			SSID:     res.SSID,
			BSSID:    net.HardwareAddr(res.BSSID[:]).String(),
			Channel:  res.Channel,
			RSSI:     res.RSSI,
			Security: res.Security.String(),
			Hidden:   res.Hidden,
		})
	}
	writeSuccess(w, r, map[string]interface{}{"networks": entries})
}

func (s *Server) handleProfileAdd(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	sec, err := parseSecurity(req.Security)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	profile := wifi.NetworkProfile{
		SSID:     []byte(req.SSID),
		Security: sec,
		Password: []byte(req.Password),
	}
	index, err := s.hal.ProfileAdd(r.Context(), profile)
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]int{"index": index})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeBadRequest(w, r, "index must be a non-negative integer")
		return
	}
	profile, err := s.hal.ProfileGet(r.Context(), index)
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, profileEntry{
		Index:    index,
		SSID:     string(profile.SSID),
		BSSID:    net.HardwareAddr(profile.BSSID[:]).String(),
		Security: profile.Security.String(),
	})
}

func (s *Server) handleProfileDelete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeBadRequest(w, r, "index must be a non-negative integer")
		return
	}
	if err := s.hal.ProfileDelete(r.Context(), index); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleConfigureAP(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	sec, err := parseSecurity(req.Security)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	params := wifi.NetworkParams{
		SSID:     []byte(req.SSID),
		Password: []byte(req.Password),
		Security: sec,
		Channel:  req.Channel,
	}
	if err := s.hal.ConfigureAP(r.Context(), params); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleGetPower(w http.ResponseWriter, r *http.Request) {
	mode, err := s.hal.PMMode(r.Context())
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]string{"mode": mode.String()})
}

func (s *Server) handleSetPower(w http.ResponseWriter, r *http.Request) {
	var req powerRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	mode, err := parsePMMode(req.Mode)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if err := s.hal.SetPMMode(r.Context(), mode); err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, nil)
}

func (s *Server) handleIP(w http.ResponseWriter, r *http.Request) {
	addr, err := s.hal.IP(r.Context())
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]string{"ip": formatIP(addr)})
}

func (s *Server) handleMAC(w http.ResponseWriter, r *http.Request) {
	mac, err := s.hal.MAC(r.Context())
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]string{"mac": net.HardwareAddr(mac[:]).String()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, map[string]bool{"connected": s.hal.IsConnected()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	if host == "" {
		writeBadRequest(w, r, "host query parameter is required")
		return
	}
	addr, err := s.hal.HostIP(r.Context(), host)
	if err != nil {
		writeHALError(w, r, s.log, err)
		return
	}
	writeSuccess(w, r, map[string]string{"host": host, "ip": formatIP(addr)})
}
