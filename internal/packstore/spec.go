package packstore

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Spec 表示一次请求定位到的包坐标，Name 含 @scope 前缀（如有）。
type Spec struct {
	Name    string
	Version string
}

// String 输出 name@version 形式，用于日志与错误文案。
func (s Spec) String() string {
	return fmt.Sprintf("%s@%s", s.Name, s.Version)
}

var (
	// ErrBadSpec 表示 URL 中的包坐标无法解析。
	ErrBadSpec = errors.New("invalid package spec")
)

// ParseRequestPath 把 /name@version/file 或 /@scope/name@version/file
// 拆分为包坐标与包内路径；包内路径始终以 / 开头，可以为空串表示裸请求。
func ParseRequestPath(requestPath string) (Spec, string, error) {
	clean := strings.TrimPrefix(requestPath, "/")
	if clean == "" {
		return Spec{}, "", fmt.Errorf("%w: 路径为空", ErrBadSpec)
	}

	var specPart, rest string
	if strings.HasPrefix(clean, "@") {
		// scoped 包占两段：@scope/name@version
		slash := strings.Index(clean, "/")
		if slash < 0 {
			return Spec{}, "", fmt.Errorf("%w: scoped 包缺少名称段", ErrBadSpec)
		}
		second := strings.Index(clean[slash+1:], "/")
		if second < 0 {
			specPart, rest = clean, ""
		} else {
			specPart = clean[:slash+1+second]
			rest = clean[slash+1+second:]
		}
	} else {
		slash := strings.Index(clean, "/")
		if slash < 0 {
			specPart, rest = clean, ""
		} else {
			specPart, rest = clean[:slash], clean[slash:]
		}
	}

	at := strings.LastIndex(specPart, "@")
	if at <= 0 {
		// at==0 命中 scope 前缀的 @，说明没有版本段
		return Spec{}, "", fmt.Errorf("%w: 缺少版本号: %s", ErrBadSpec, specPart)
	}

	spec := Spec{
		Name:    specPart[:at],
		Version: specPart[at+1:],
	}
	if spec.Name == "" || spec.Version == "" {
		return Spec{}, "", fmt.Errorf("%w: %s", ErrBadSpec, specPart)
	}
	if strings.Contains(spec.Name, "..") || strings.Contains(spec.Version, "/") {
		return Spec{}, "", fmt.Errorf("%w: %s", ErrBadSpec, specPart)
	}

	filename := ""
	if rest != "" {
		filename = path.Clean(rest)
		if filename == "/" {
			filename = ""
		}
	}
	return spec, filename, nil
}
