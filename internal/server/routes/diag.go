package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"github.com/pkg-edge/pkg-edge/internal/metrics"
	"github.com/pkg-edge/pkg-edge/internal/serve"
	"github.com/pkg-edge/pkg-edge/internal/version"
)

// RegisterDiagRoutes 暴露 /-/ 前缀下的诊断接口，绕过包解析。
func RegisterDiagRoutes(app *fiber.App, m *metrics.ServerMetrics) {
	if app == nil {
		return
	}

	app.Get("/-/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": version.Full(),
		})
	})

	app.Get("/-/modes", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"modes": encodeModes(),
		})
	})

	if m != nil {
		app.Get("/-/metrics", adaptor.HTTPHandler(m.Handler()))
	}
}

type modePayload struct {
	Mode         string `json:"mode"`
	Selector     string `json:"selector"`
	CacheControl string `json:"cache_control"`
	CacheTag     string `json:"cache_tag"`
	ContentType  string `json:"content_type"`
}

// encodeModes 输出四种分发模式及其缓存契约，供 SRE 与边缘缓存对照。
func encodeModes() []modePayload {
	return []modePayload{
		{
			Mode:         "meta",
			Selector:     "?meta",
			CacheControl: serve.MetaPolicy().CacheControl(),
			CacheTag:     serve.MetaPolicy().CacheTag(),
			ContentType:  "application/json",
		},
		{
			Mode:         "module",
			Selector:     "?module",
			CacheControl: serve.ModulePolicy().CacheControl(),
			CacheTag:     serve.ModulePolicy().CacheTag(),
			ContentType:  "application/javascript; charset=utf-8",
		},
		{
			Mode:         "static",
			Selector:     "default (regular file)",
			CacheControl: serve.StaticPolicy("").CacheControl(),
			CacheTag:     serve.StaticPolicy("").CacheTag(),
			ContentType:  "by extension",
		},
		{
			Mode:         "index",
			Selector:     "default (directory)",
			CacheControl: serve.IndexPolicy().CacheControl(),
			CacheTag:     serve.IndexPolicy().CacheTag(),
			ContentType:  "text/html; charset=utf-8",
		},
	}
}
