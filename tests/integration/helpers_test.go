package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/pkg-edge/pkg-edge/internal/metrics"
	"github.com/pkg-edge/pkg-edge/internal/packstore"
	"github.com/pkg-edge/pkg-edge/internal/serve"
	"github.com/pkg-edge/pkg-edge/internal/server"
	"github.com/pkg-edge/pkg-edge/internal/server/routes"
)

// newTestServer 组装与生产一致的完整应用：存储、分发器、诊断路由。
func newTestServer(t *testing.T, root string, autoIndex bool) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := packstore.NewStore(root)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	dispatcher := serve.NewDispatcher(serve.Options{
		Logger:          logger,
		Origin:          "http://cdn.local",
		AutoIndex:       autoIndex,
		MaxPreviewBytes: 4 * 1024 * 1024,
	})

	serverMetrics := metrics.New()
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    serverMetrics,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	routes.RegisterDiagRoutes(app, serverMetrics)
	return app
}

func seedFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

// paddedManifest 生成恰好 size 字节的合法 package.json，便于断言 Content-Length。
func paddedManifest(t *testing.T, base string, size int) string {
	t.Helper()
	if len(base) > size {
		t.Fatalf("manifest 基础内容已超过 %d 字节", size)
	}
	return base + strings.Repeat(" ", size-len(base))
}

func doRequest(t *testing.T, app *fiber.App, method, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, url, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return string(raw)
}
