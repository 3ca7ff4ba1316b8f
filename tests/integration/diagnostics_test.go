package integration

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiagnosticsBypassPackageResolution(t *testing.T) {
	app := newTestServer(t, t.TempDir(), true)

	health := doRequest(t, app, "GET", "http://cdn.local/-/health")
	if health.StatusCode != 200 {
		t.Fatalf("health should be reachable, got %d", health.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(bodyOf(t, health)), &payload); err != nil {
		t.Fatalf("health should be JSON: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", payload)
	}

	modes := doRequest(t, app, "GET", "http://cdn.local/-/modes")
	if modes.StatusCode != 200 {
		t.Fatalf("modes should be reachable, got %d", modes.StatusCode)
	}
	if body := bodyOf(t, modes); !strings.Contains(body, "js-module") {
		t.Fatalf("modes should describe cache tags: %s", body)
	}
}

func TestMetricsRecordDeliveredRequests(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, map[string]string{
		"demo@1.0.0/package.json": `{"name":"demo","version":"1.0.0"}`,
	})
	app := newTestServer(t, root, true)

	if resp := doRequest(t, app, "GET", "http://cdn.local/demo@1.0.0/package.json"); resp.StatusCode != 200 {
		t.Fatalf("static request failed: %d", resp.StatusCode)
	}

	metricsResp := doRequest(t, app, "GET", "http://cdn.local/-/metrics")
	if metricsResp.StatusCode != 200 {
		t.Fatalf("metrics endpoint failed: %d", metricsResp.StatusCode)
	}
	body := bodyOf(t, metricsResp)
	if !strings.Contains(body, `pkg_edge_requests_total{mode="static",status="200"}`) {
		t.Fatalf("metrics should record the static request:\n%s", body)
	}
}
