package serve

import (
	"path"

	"github.com/gofiber/fiber/v3"

	"github.com/pkg-edge/pkg-edge/internal/render"
)

// serveIndex 通过注入的子项枚举协作方列出目录的直接子级并渲染索引页。
func (d *Dispatcher) serveIndex(c fiber.Ctx, req *Request) error {
	entries, err := d.lister(c.Context(), req.AbsPath())
	if err != nil {
		msg := Sanitize(err.Error(), req.PackageDir, req.PackageSpec)
		return d.fail(c, req, "index", IOFailure(msg))
	}

	base := "/" + req.PackageSpec + req.Filename
	items := make([]render.IndexEntry, 0, len(entries))
	for _, entry := range entries {
		href := path.Join(base, entry.Name)
		if entry.IsDir {
			href += "/"
		}
		items = append(items, render.IndexEntry{
			Name:  entry.Name,
			Href:  href,
			IsDir: entry.IsDir,
			Size:  entry.Size,
		})
	}

	page, err := render.IndexPage(render.IndexData{
		PackageSpec: req.PackageSpec,
		Path:        req.Filename,
		Entries:     items,
	})
	if err != nil {
		return d.fail(c, req, "index", IOFailure(err.Error()))
	}

	d.applyPolicy(c, IndexPolicy())
	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	return c.SendString(page)
}
