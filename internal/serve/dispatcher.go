package serve

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/pkg-edge/pkg-edge/internal/contenttype"
	"github.com/pkg-edge/pkg-edge/internal/logging"
	"github.com/pkg-edge/pkg-edge/internal/packstore"
	"github.com/pkg-edge/pkg-edge/internal/rewrite"
)

// RewriteFunc 是裸标识符改写协作方的契约，测试可注入打桩实现。
type RewriteFunc func(origin, specifier string, deps map[string]string) (string, error)

// Options 控制分发器在单个进程内的行为，构造后不再变化。
type Options struct {
	Logger          *logrus.Logger
	Origin          string
	AutoIndex       bool
	MaxPreviewBytes int64
	Lister          packstore.Lister
	Rewriter        RewriteFunc
}

// Dispatcher 根据文件类型与请求标记选择唯一的分发策略，
// 附加该模式的缓存契约，失败时输出统一的纯文本错误。
type Dispatcher struct {
	logger          *logrus.Logger
	origin          string
	autoIndex       bool
	maxPreviewBytes int64
	lister          packstore.Lister
	rewriter        RewriteFunc
}

// NewDispatcher 构建分发器；auto-index 开关来自配置而非进程级全局状态。
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	lister := opts.Lister
	if lister == nil {
		lister = packstore.ListEntries
	}
	rewriter := opts.Rewriter
	if rewriter == nil {
		rewriter = rewrite.Rewrite
	}
	maxPreview := opts.MaxPreviewBytes
	if maxPreview <= 0 {
		maxPreview = 4 * 1024 * 1024
	}
	return &Dispatcher{
		logger:          logger,
		origin:          opts.Origin,
		autoIndex:       opts.AutoIndex,
		maxPreviewBytes: maxPreview,
		lister:          lister,
		rewriter:        rewriter,
	}
}

// Serve 按优先级选择分发模式：meta 标记最先判定（文件和目录都支持），
// 其次是普通文件的 module/static 分支，最后才轮到目录索引。
func (d *Dispatcher) Serve(c fiber.Ctx, req *Request) error {
	switch {
	case req.Meta:
		d.logDecision(req, "meta")
		return d.serveMeta(c, req)

	case req.Stats.Mode().IsRegular():
		if req.Module {
			if ct := contenttype.Resolve(req.Filename); !contenttype.IsJavaScript(ct) {
				return d.fail(c, req, "module", NotServable("module mode requires a JavaScript file"))
			}
			d.logDecision(req, "module")
			return d.serveModule(c, req)
		}
		d.logDecision(req, "static")
		return d.serveStatic(c, req)

	case req.Stats.IsDir() && d.autoIndex:
		d.logDecision(req, "index")
		return d.serveIndex(c, req)

	default:
		return d.fail(c, req, "none", NotServable("not a servable file"))
	}
}

func (d *Dispatcher) logDecision(req *Request, mode string) {
	d.logger.WithFields(logging.RequestFields(req.PackageSpec, req.Filename, mode, req.RequestID)).
		Debug("dispatch")
}

// fail 渲染统一的纯文本错误：正文以包坐标 + 请求路径开头，
// 便于运维不查日志即可关联到原始请求。
func (d *Dispatcher) fail(c fiber.Ctx, req *Request, mode string, failure *Failure) error {
	fields := logging.RequestFields(req.PackageSpec, req.Filename, mode, req.RequestID)
	fields["kind"] = failure.Kind
	fields["status"] = failure.Status
	d.logger.WithFields(fields).Warn(failure.Message)

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Status(failure.Status).
		SendString(req.PackageSpec + req.Filename + ": " + failure.Message)
}

func (d *Dispatcher) applyPolicy(c fiber.Ctx, policy Policy) {
	c.Set(fiber.HeaderCacheControl, policy.CacheControl())
	c.Set("Cache-Tag", policy.CacheTag())
}
