package serve

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// 失败分类名，出现在日志字段与诊断文案中。
const (
	KindNotServable      = "not_servable"
	KindTransformFailure = "transform_failed"
	KindIOFailure        = "io_failed"
)

// Failure 是分发策略的结构化失败，分发器统一渲染为纯文本响应。
type Failure struct {
	Status  int
	Kind    string
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NotServable 请求对象不可分发，调用方需要修正请求。
func NotServable(message string) *Failure {
	return &Failure{Status: fiber.StatusForbidden, Kind: KindNotServable, Message: message}
}

// TransformFailure 模块解析/改写失败，确定性错误，不重试。
func TransformFailure(message string) *Failure {
	return &Failure{Status: fiber.StatusInternalServerError, Kind: KindTransformFailure, Message: message}
}

// IOFailure 磁盘读取失败。
func IOFailure(message string) *Failure {
	return &Failure{Status: fiber.StatusInternalServerError, Kind: KindIOFailure, Message: message}
}

// Sanitize 把文案中的服务器磁盘路径替换为逻辑包坐标，
// 保证错误文本不泄露存储布局。
func Sanitize(text, packageDir, packageSpec string) string {
	if packageDir == "" {
		return text
	}
	return strings.ReplaceAll(text, packageDir, packageSpec)
}
