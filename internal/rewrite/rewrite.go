// Package rewrite 实现裸模块标识符到 CDN URL 的纯函数改写：
// 输入 (origin, specifier, 依赖表)，输出完整 URL 或失败，
// 不读任何环境配置，保证同样的输入永远得到同样的输出。
package rewrite

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnmappedDependency 表示依赖表中找不到该裸标识符对应的包。
var ErrUnmappedDependency = errors.New("specifier not in dependency map")

// IsBare 判断标识符是否为裸包名引用：相对/绝对路径与完整 URL 都不算。
func IsBare(specifier string) bool {
	if specifier == "" {
		return false
	}
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return false
	}
	if specifier == "." || specifier == ".." {
		return false
	}
	if strings.HasPrefix(specifier, "/") {
		return false
	}
	if strings.Contains(specifier, "://") || strings.HasPrefix(specifier, "data:") {
		return false
	}
	return true
}

// Split 把裸标识符拆成包名与子路径，scoped 包名占两段。
func Split(specifier string) (name, subpath string) {
	parts := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 {
			return specifier, ""
		}
		name = parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			subpath = "/" + parts[2]
		}
		return name, subpath
	}
	name = parts[0]
	if len(parts) > 1 {
		subpath = "/" + strings.Join(parts[1:], "/")
	}
	return name, subpath
}

// Rewrite 把裸标识符改写为 origin 下的完整 CDN URL，
// 版本取自依赖表声明的 semver 区间；未声明的依赖视为失败。
func Rewrite(origin, specifier string, deps map[string]string) (string, error) {
	name, subpath := Split(specifier)
	rng, ok := deps[name]
	if !ok || strings.TrimSpace(rng) == "" {
		return "", fmt.Errorf("%w: %s", ErrUnmappedDependency, name)
	}
	return fmt.Sprintf("%s/%s@%s%s?module", strings.TrimSuffix(origin, "/"), name, rng, subpath), nil
}
