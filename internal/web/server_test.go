package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/pulse-motion/internal/motion"
	"github.com/sweeney/pulse-motion/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:       1,
		PollMs:       50,
		DebugMs:      5000,
		PinMotion:    17,
		PinLED:       18,
		PWMFreq:      1000,
		FollowMotion: true,
		Broker:       "tcp://192.168.1.200:1883",
		HTTPAddr:     ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.UpdateMotion(motion.StateOn, time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC), true, motion.EventCounts{Detected: 5, Cleared: 4})
	tr.UpdatePulse(status.Pulse{Active: true, Phase: "RISE_B", Intensity: 90, Beats: 3})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Motion != "ON" {
		t.Errorf("Motion: got %q, want ON", sj.Status.Motion)
	}
	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if !sj.Status.Heartbeat.Active {
		t.Error("expected Heartbeat.Active=true")
	}
	if sj.Status.Heartbeat.Phase != "RISE_B" {
		t.Errorf("Heartbeat.Phase: got %q, want RISE_B", sj.Status.Heartbeat.Phase)
	}
	if sj.Status.Heartbeat.Intensity != 90 {
		t.Errorf("Heartbeat.Intensity: got %d, want 90", sj.Status.Heartbeat.Intensity)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Detected != 5 || sj.Status.Counts.Cleared != 4 {
		t.Errorf("Counts: got %+v", sj.Status.Counts)
	}
	if sj.Status.Config.PinMotion != 17 {
		t.Errorf("Config.PinMotion: got %d, want 17", sj.Status.Config.PinMotion)
	}
}

func TestJSONUnknownStateBeforeBaseline(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Motion != "UNKNOWN" {
		t.Errorf("Motion before baseline: got %q, want UNKNOWN", sj.Status.Motion)
	}
	if sj.Status.Heartbeat.Active {
		t.Error("expected heartbeat inactive before any update")
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{
		Type:   "wifi",
		IP:     "192.168.1.42",
		Status: "connected",
		SSID:   "MyNet",
	})

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.UpdateMotion(motion.StateOn, time.Now(), true, motion.EventCounts{})
	tr.UpdatePulse(status.Pulse{Active: true, Phase: "GAP_1", Intensity: 255})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"Pulse Motion", "beating", "GAP_1", "100%"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "idle") {
		t.Error("expected idle heartbeat before any update")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Ready {
		t.Error("expected Ready=false initially")
	}

	tr.UpdateMotion(motion.StateOff, time.Now(), true, motion.EventCounts{Cleared: 1})
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if !sj2.Status.Ready {
		t.Error("expected Ready=true after update")
	}
	if sj2.Status.Motion != "OFF" {
		t.Errorf("Motion: got %q, want OFF", sj2.Status.Motion)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}

func TestHealthz(t *testing.T) {
	ts, tr := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before baseline: got %d, want 503", resp.StatusCode)
	}

	tr.UpdateMotion(motion.StateOff, time.Now(), true, motion.EventCounts{})

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("after baseline: got %d, want 200", resp.StatusCode)
	}
	if string(body) != "ok\n" {
		t.Errorf("body: got %q, want %q", body, "ok\n")
	}
}

func TestPostRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/index.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != "GET, HEAD" {
		t.Errorf("Allow: got %q", allow)
	}
}

func TestResponsesNotCached(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control: got %q, want no-store", cc)
	}
}

func getBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestLivePageDisabledByDefault(t *testing.T) {
	ts, _ := newTestServer(t)

	body := getBody(t, ts.URL+"/")
	if strings.Contains(body, "mqtt.connect") || strings.Contains(body, `id="live-dot"`) {
		t.Error("expected no live script without a websocket broker")
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("expected periodic refresh without a websocket broker")
	}
}

func TestLivePageEnabled(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{WSBroker: "ws://192.168.1.200:9001"})
	ts := httptest.NewServer(New(":0", tr).httpServer.Handler)
	t.Cleanup(ts.Close)

	body := getBody(t, ts.URL+"/")
	for _, want := range []string{`id="live-dot"`, "mqtt.connect(broker", "192.168.1.200:9001", "pulse-motion", `id="pulse-beats"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected live page to contain %q", want)
		}
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("live page should not also auto-refresh")
	}

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Config.WSBroker != "ws://192.168.1.200:9001" {
		t.Errorf("Config.WSBroker: got %q", sj.Status.Config.WSBroker)
	}
}
