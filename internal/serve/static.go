package serve

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v3"

	"github.com/pkg-edge/pkg-edge/internal/contenttype"
	"github.com/pkg-edge/pkg-edge/internal/render"
)

// serveStatic 交付单个文件：默认直接从磁盘流式输出，
// 带 ?html 标记时转入预览分支。
func (d *Dispatcher) serveStatic(c fiber.Ctx, req *Request) error {
	ct := contenttype.Resolve(req.Filename)
	if req.HTML {
		return d.servePreview(c, req, ct)
	}

	f, err := os.Open(req.AbsPath())
	if err != nil {
		msg := Sanitize(err.Error(), req.PackageDir, req.PackageSpec)
		return d.fail(c, req, "static", IOFailure(msg))
	}

	d.applyPolicy(c, StaticPolicy(req.Filename))
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderLastModified, req.Stats.ModTime().UTC().Format(http.TimeFormat))
	// 强校验器来自 stat 元数据（mtime+size），不是内容哈希
	c.Set(fiber.HeaderETag, etagFor(req.Stats))

	if c.Method() == fiber.MethodHead {
		f.Close()
		c.Status(fiber.StatusOK)
		c.Response().Header.SetContentLength(int(req.Stats.Size()))
		return nil
	}

	// SendStream 不做整体缓冲；传输层在完成、客户端断开或出错时
	// 关闭底层 Reader，保证文件句柄在所有退出路径上释放。
	return c.SendStream(f, int(req.Stats.Size()))
}

// servePreview 读入完整源文件并包进语法高亮 HTML 外壳。
// 这里刻意整体缓冲而非流式输出：文档必须拿到全文才能渲染。
func (d *Dispatcher) servePreview(c fiber.Ctx, req *Request, ct string) error {
	if req.Stats.Size() > d.maxPreviewBytes {
		return d.fail(c, req, "static",
			NotServable(fmt.Sprintf("file too large for html preview (%d bytes)", req.Stats.Size())))
	}

	raw, err := os.ReadFile(req.AbsPath())
	if err != nil {
		msg := Sanitize(err.Error(), req.PackageDir, req.PackageSpec)
		return d.fail(c, req, "static", IOFailure(msg))
	}

	page, err := render.PreviewPage(render.PreviewData{
		PackageSpec: req.PackageSpec,
		Path:        req.Filename,
		Language:    previewLanguage(req.Filename),
		Source:      string(raw),
	})
	if err != nil {
		return d.fail(c, req, "static", IOFailure(err.Error()))
	}

	d.applyPolicy(c, StaticPolicy(req.Filename))
	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	return c.SendString(page)
}

func previewLanguage(filename string) string {
	if ext := contenttype.ExtensionTag(filename); ext != "" {
		return ext
	}
	return "plaintext"
}

func etagFor(stats os.FileInfo) string {
	return fmt.Sprintf("\"%x-%x\"", stats.ModTime().Unix(), stats.Size())
}
