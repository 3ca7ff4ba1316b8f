package serve

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/pkg-edge/pkg-edge/internal/packstore"
)

// buildPackage 在临时目录里搭一个已解包的包版本，返回包目录。
func buildPackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("创建目录失败: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("写文件失败: %v", err)
		}
	}
	return dir
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newRequest 组装分发器入参；filename 为空时指向包根目录。
func newRequest(t *testing.T, dir, filename string, manifest *packstore.Manifest) *Request {
	t.Helper()
	if filename == "" {
		filename = "/"
	}
	req := &Request{
		PackageSpec: "demo@1.0.0",
		PackageDir:  dir,
		Filename:    filename,
		Manifest:    manifest,
	}
	stats, err := os.Stat(req.AbsPath())
	if err != nil {
		t.Fatalf("stat 失败: %v", err)
	}
	req.Stats = stats
	return req
}

// dispatch 用一个单路由 Fiber app 执行一次分发并返回响应。
func dispatch(t *testing.T, d *Dispatcher, req *Request, method string) *http.Response {
	t.Helper()
	app := fiber.New()
	app.All("/*", func(c fiber.Ctx) error {
		return d.Serve(c, req)
	})

	httpReq := httptest.NewRequest(method, "http://cdn.local"+"/"+req.PackageSpec+req.Filename, nil)
	resp, err := app.Test(httpReq)
	if err != nil {
		t.Fatalf("请求执行失败: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("读取响应失败: %v", err)
	}
	return string(raw)
}
