package serve

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/gofiber/fiber/v3"

	"github.com/pkg-edge/pkg-edge/internal/contenttype"
	"github.com/pkg-edge/pkg-edge/internal/rewrite"
)

// serveModule 交付改写后的 ES 模块。调用前分发器已完成 JS 类型门禁，
// 这里不再复查内容类型。
func (d *Dispatcher) serveModule(c fiber.Ctx, req *Request) error {
	code, failure := d.rewriteModule(req)
	if failure != nil {
		return d.fail(c, req, "module", failure)
	}

	d.applyPolicy(c, ModulePolicy())
	c.Set(fiber.HeaderContentType, contenttype.JavaScript)
	return c.SendString(code)
}

// rewriteModule 把源文件解析为语法树并重写其中的裸 import 标识符，
// 源码只被解析、从不执行；解析不读取任何工程级配置文件，
// 因为包自身的依赖并未安装在本环境中。
func (d *Dispatcher) rewriteModule(req *Request) (string, *Failure) {
	deps := req.Manifest.DependencyMap()

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{req.AbsPath()},
		Bundle:      true,
		Write:       false,
		Format:      api.FormatESModule,
		Platform:    api.PlatformNeutral,
		LogLevel:    api.LogLevelSilent,
		TsconfigRaw: "{}",
		Plugins:     []api.Plugin{d.rewritePlugin(deps)},
	})

	if len(result.Errors) > 0 {
		return "", transformFailure(result.Errors[0], req)
	}
	if len(result.OutputFiles) == 0 {
		return "", TransformFailure("rewrite produced no output")
	}
	return string(result.OutputFiles[0].Contents), nil
}

// rewritePlugin 在解析阶段拦截所有 import 标识符：裸标识符交给改写
// 引擎换成 CDN URL，相对/绝对引用保持原样；改写后的引用一律标记为
// external，避免被打包进当前模块。
func (d *Dispatcher) rewritePlugin(deps map[string]string) api.Plugin {
	return api.Plugin{
		Name: "bare-specifier-rewrite",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if args.Kind == api.ResolveEntryPoint {
					return api.OnResolveResult{}, nil
				}
				if !rewrite.IsBare(args.Path) {
					return api.OnResolveResult{Path: args.Path, External: true}, nil
				}
				target, err := d.rewriter(d.origin, args.Path, deps)
				if err != nil {
					return api.OnResolveResult{}, err
				}
				return api.OnResolveResult{Path: target, External: true}, nil
			})
		},
	}
}

// transformFailure 把 esbuild 的诊断消息转成结构化失败：
// 文案中的磁盘路径替换为包坐标，并尽量保留指向出错 import 的代码帧。
func transformFailure(msg api.Message, req *Request) *Failure {
	text := Sanitize(msg.Text, req.PackageDir, req.PackageSpec)
	if frame := codeFrame(msg.Location, req); frame != "" {
		text = text + "\n\n" + frame
	}
	return TransformFailure(text)
}

func codeFrame(loc *api.Location, req *Request) string {
	if loc == nil {
		return ""
	}
	file := Sanitize(loc.File, req.PackageDir, req.PackageSpec)
	prefix := fmt.Sprintf("%4d | ", loc.Line)
	caret := strings.Repeat(" ", len(prefix)+loc.Column) + "^"
	return fmt.Sprintf("%s:%d:%d\n%s%s\n%s", file, loc.Line, loc.Column, prefix, loc.LineText, caret)
}
