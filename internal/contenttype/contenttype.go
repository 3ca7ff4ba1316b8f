// Package contenttype 将包内文件路径按扩展名映射为 MIME 类型，
// 供静态分发、模块改写门禁与元数据树共用同一张表。
package contenttype

import (
	"path"
	"strings"
)

// JavaScript 是 JS 文件与改写后模块统一使用的内容类型。
const JavaScript = "application/javascript; charset=utf-8"

// DefaultType 是未知扩展名的兜底类型。
const DefaultType = "application/octet-stream"

var byExtension = map[string]string{
	".js":       JavaScript,
	".mjs":      JavaScript,
	".cjs":      JavaScript,
	".jsx":      JavaScript,
	".json":     "application/json",
	".map":      "application/json",
	".html":     "text/html; charset=utf-8",
	".htm":      "text/html; charset=utf-8",
	".css":      "text/css; charset=utf-8",
	".md":       "text/markdown; charset=utf-8",
	".markdown": "text/markdown; charset=utf-8",
	".txt":      "text/plain; charset=utf-8",
	".ts":       "text/plain; charset=utf-8",
	".tsx":      "text/plain; charset=utf-8",
	".flow":     "text/plain; charset=utf-8",
	".coffee":   "text/plain; charset=utf-8",
	".lock":     "text/plain; charset=utf-8",
	".yml":      "text/plain; charset=utf-8",
	".yaml":     "text/plain; charset=utf-8",
	".xml":      "application/xml",
	".csv":      "text/csv; charset=utf-8",
	".svg":      "image/svg+xml",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".gif":      "image/gif",
	".webp":     "image/webp",
	".ico":      "image/x-icon",
	".woff":     "font/woff",
	".woff2":    "font/woff2",
	".ttf":      "font/ttf",
	".eot":      "application/vnd.ms-fontobject",
	".wasm":     "application/wasm",
	".gz":       "application/gzip",
	".tgz":      "application/gzip",
	".zip":      "application/zip",
}

// Resolve 返回路径对应的 MIME 类型。无扩展名的文件（README、LICENSE 等）
// 以及 .npmrc/.gitignore 这类点文件按纯文本处理，其余未知扩展名回退兜底类型。
func Resolve(p string) string {
	base := path.Base(p)
	ext := strings.ToLower(path.Ext(base))
	if ct, ok := byExtension[ext]; ok {
		return ct
	}
	if ext == "" || strings.HasSuffix(ext, "rc") || strings.HasSuffix(ext, "ignore") {
		return "text/plain; charset=utf-8"
	}
	return DefaultType
}

// IsJavaScript 判断内容类型是否为 JavaScript（忽略 charset 参数）。
func IsJavaScript(contentType string) bool {
	return strings.HasPrefix(contentType, "application/javascript")
}

// ExtensionTag 返回用于 Cache-Tag 的扩展名标签（如 "json"），无扩展名时为空串。
func ExtensionTag(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(path.Base(p)), "."))
}
