package server

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pkg-edge/pkg-edge/internal/metrics"
	"github.com/pkg-edge/pkg-edge/internal/packstore"
	"github.com/pkg-edge/pkg-edge/internal/serve"
)

// AppOptions controls how the Fiber application is assembled.
type AppOptions struct {
	Logger     *logrus.Logger
	Store      *packstore.Store
	Dispatcher *serve.Dispatcher
	Metrics    *metrics.ServerMetrics
}

const contextKeyRequestID = "_pkgedge_request_id"

// NewApp builds a Fiber application with request-ID middleware, the
// package resolver boundary, and the mode dispatcher behind a catch-all.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Store == nil {
		return nil, errors.New("package store is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware())

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(string(c.Request().URI().Path())) {
			return c.Next()
		}
		return handlePackageRequest(c, opts)
	})

	return app, nil
}

// requestIDMiddleware 为每个请求生成 UUID，写入响应头并暂存在 Locals。
func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}

// handlePackageRequest 是上游解析边界：把 URL 落到磁盘上的包版本目录，
// 组装只读的请求描述后交给分发器。到达分发器的输入保证已存在于磁盘。
func handlePackageRequest(c fiber.Ctx, opts AppOptions) error {
	started := time.Now()

	if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
		c.Set(fiber.HeaderAllow, "GET, HEAD")
		return c.Status(fiber.StatusMethodNotAllowed).SendString("method not allowed")
	}

	rawPath := string(c.Request().URI().Path())
	spec, filename, err := packstore.ParseRequestPath(rawPath)
	if err != nil {
		return textError(c, fiber.StatusNotFound, rawPath+": "+err.Error())
	}

	pkg, err := opts.Store.Resolve(c.Context(), spec)
	if err != nil {
		if errors.Is(err, packstore.ErrNotFound) {
			return textError(c, fiber.StatusNotFound, spec.String()+": package not found")
		}
		opts.Logger.WithError(err).WithFields(logrus.Fields{
			"action":  "resolve",
			"package": spec.String(),
		}).Error("package resolve failed")
		return textError(c, fiber.StatusInternalServerError,
			spec.String()+": "+serve.Sanitize(err.Error(), opts.Store.BasePath(), spec.String()))
	}

	args := c.Request().URI().QueryArgs()
	flagMeta := args.Has("meta")
	flagModule := args.Has("module")
	flagHTML := args.Has("html")

	if filename == "" {
		if flagMeta {
			filename = "/"
		} else {
			return redirectToEntry(c, pkg, flagModule)
		}
	}

	_, stats, err := opts.Store.StatFile(pkg, filename)
	if err != nil {
		// URL 输入经 Clean 折叠后不会越界，此分支仅保护直接调用 StatFile 的场景
		if errors.Is(err, packstore.ErrEscapesPackage) {
			return textError(c, fiber.StatusForbidden, spec.String()+filename+": path escapes package")
		}
		if errors.Is(err, fs.ErrNotExist) {
			return textError(c, fiber.StatusNotFound, spec.String()+filename+": not found")
		}
		return textError(c, fiber.StatusInternalServerError,
			spec.String()+filename+": "+serve.Sanitize(err.Error(), pkg.Dir, spec.String()))
	}

	req := &serve.Request{
		PackageSpec: spec.String(),
		PackageDir:  pkg.Dir,
		Filename:    filename,
		Stats:       stats,
		Manifest:    pkg.Manifest,
		RequestID:   RequestID(c),
		Meta:        flagMeta,
		Module:      flagModule,
		HTML:        flagHTML,
	}

	serveErr := opts.Dispatcher.Serve(c, req)

	status := c.Response().StatusCode()
	if opts.Metrics != nil {
		opts.Metrics.Observe(modeLabel(req, stats.IsDir()), status,
			time.Since(started), c.Response().Header.ContentLength())
	}

	fields := logrus.Fields{
		"action":     "request_complete",
		"package":    req.PackageSpec,
		"file":       req.Filename,
		"mode":       modeLabel(req, stats.IsDir()),
		"status":     status,
		"elapsed_ms": time.Since(started).Milliseconds(),
		"request_id": req.RequestID,
	}
	if serveErr != nil {
		opts.Logger.WithError(serveErr).WithFields(fields).Error("dispatch error")
		return serveErr
	}
	opts.Logger.WithFields(fields).Info("request served")
	return nil
}

// redirectToEntry 处理不带包内路径的裸请求：302 跳转到 manifest 声明的入口，
// 保留原查询串；跳转本身仅短缓存。
func redirectToEntry(c fiber.Ctx, pkg *packstore.ResolvedPackage, preferModule bool) error {
	location := "/" + pkg.Spec.String() + pkg.Manifest.EntryPoint(preferModule)
	if qs := c.Request().URI().QueryString(); len(qs) > 0 {
		location += "?" + string(qs)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return c.Redirect().Status(fiber.StatusFound).To(location)
}

func modeLabel(req *serve.Request, isDir bool) string {
	switch {
	case req.Meta:
		return "meta"
	case isDir:
		return "index"
	case req.Module:
		return "module"
	default:
		return "static"
	}
}

func textError(c fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Status(status).SendString(message)
}
