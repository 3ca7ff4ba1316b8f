package serve

import (
	"fmt"
	"strings"

	"github.com/pkg-edge/pkg-edge/internal/contenttype"
)

// yearSeconds 是不可变内容（包版本一旦发布即冻结）的边缘缓存时长。
const yearSeconds = 31536000

// indexSeconds 是目录索引页的缓存时长；目录子项集合不视为永久不可变。
const indexSeconds = 60

// Policy 描述单个响应的缓存契约，创建后不再修改。
type Policy struct {
	MaxAgeSeconds int
	Tags          []string
}

// CacheControl 输出标准的 Cache-Control 头。
func (p Policy) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d", p.MaxAgeSeconds)
}

// CacheTag 输出供边缘缓存分类/清除使用的 Cache-Tag 头。
func (p Policy) CacheTag() string {
	return strings.Join(p.Tags, ",")
}

// MetaPolicy 元数据树：包内容不可变，缓存一年。
func MetaPolicy() Policy {
	return Policy{MaxAgeSeconds: yearSeconds, Tags: []string{"meta"}}
}

// ModulePolicy 改写后的模块：(文件内容, 依赖表) 的纯函数结果，缓存一年。
func ModulePolicy() Policy {
	return Policy{MaxAgeSeconds: yearSeconds, Tags: []string{"file", "js-file", "js-module"}}
}

// StaticPolicy 静态文件：固定带 file 标签，有扩展名时追加 <ext>-file。
func StaticPolicy(filename string) Policy {
	tags := []string{"file"}
	if ext := contenttype.ExtensionTag(filename); ext != "" {
		tags = append(tags, ext+"-file")
	}
	return Policy{MaxAgeSeconds: yearSeconds, Tags: tags}
}

// IndexPolicy 目录索引页：短缓存。
func IndexPolicy() Policy {
	return Policy{MaxAgeSeconds: indexSeconds, Tags: []string{"index"}}
}
