package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/pkg-edge/pkg-edge/internal/metrics"
)

func TestHealthEndpoint(t *testing.T) {
	app := fiber.New()
	RegisterDiagRoutes(app, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "http://cdn.local/-/health", nil))
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("health 应返回 200，得到 %d", resp.StatusCode)
	}

	var payload map[string]string
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("health 响应应为 JSON: %v", err)
	}
	if payload["status"] != "ok" || payload["version"] == "" {
		t.Fatalf("health 字段不符: %v", payload)
	}
}

func TestModesEndpointListsCachePolicies(t *testing.T) {
	app := fiber.New()
	RegisterDiagRoutes(app, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "http://cdn.local/-/modes", nil))
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}

	var payload struct {
		Modes []modePayload `json:"modes"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("modes 响应应为 JSON: %v", err)
	}
	if len(payload.Modes) != 4 {
		t.Fatalf("应列出 4 种模式，得到 %d", len(payload.Modes))
	}

	byMode := map[string]modePayload{}
	for _, m := range payload.Modes {
		byMode[m.Mode] = m
	}
	if byMode["meta"].CacheControl != "public, max-age=31536000" {
		t.Fatalf("meta 缓存契约不符: %+v", byMode["meta"])
	}
	if byMode["index"].CacheControl != "public, max-age=60" {
		t.Fatalf("index 缓存契约不符: %+v", byMode["index"])
	}
	if byMode["module"].CacheTag != "file,js-file,js-module" {
		t.Fatalf("module Cache-Tag 不符: %+v", byMode["module"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := fiber.New()
	RegisterDiagRoutes(app, metrics.New())

	resp, err := app.Test(httptest.NewRequest("GET", "http://cdn.local/-/metrics", nil))
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("metrics 应返回 200，得到 %d", resp.StatusCode)
	}
}
