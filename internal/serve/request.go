// Package serve 实现请求模式分发器与四种分发策略：
// 元数据树、模块改写、静态文件（含预览）与目录索引。
// 每个请求独立处理，包内不维护任何跨请求可变状态。
package serve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg-edge/pkg-edge/internal/packstore"
)

// Request 是上游解析器交给分发器的只读请求描述，
// 生命周期与单次请求一致，调用期间不会被修改。
type Request struct {
	PackageSpec string
	PackageDir  string
	Filename    string
	Stats       os.FileInfo
	Manifest    *packstore.Manifest
	RequestID   string

	Meta   bool
	Module bool
	HTML   bool
}

// AbsPath 返回目标文件在磁盘上的绝对路径。
func (r *Request) AbsPath() string {
	return filepath.Join(r.PackageDir, filepath.FromSlash(strings.TrimPrefix(r.Filename, "/")))
}
