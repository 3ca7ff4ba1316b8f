package packstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound 表示包版本在存储树中不存在。
	ErrNotFound = errors.New("package not found")
	// ErrEscapesPackage 表示请求路径试图跳出包目录。
	ErrEscapesPackage = errors.New("path escapes package directory")
)

// Store 基于本地存储树解析已解包的包版本，目录布局为
// <root>/<name>@<version>/...（scoped 包位于 <root>/@scope/ 下）。
type Store struct {
	basePath string
}

// NewStore 以 basePath 为根目录构建包存储，整站复用一份实例。
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("storage path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}

	return &Store{basePath: abs}, nil
}

// BasePath 返回存储根目录的绝对路径。
func (s *Store) BasePath() string {
	return s.basePath
}

// ResolvedPackage 汇总一次解析的结果，供分发层只读使用。
type ResolvedPackage struct {
	Spec     Spec
	Dir      string
	Manifest *Manifest
}

// Resolve 定位包版本目录并解析其 package.json；目录不存在返回 ErrNotFound。
func (s *Store) Resolve(ctx context.Context, spec Spec) (*ResolvedPackage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dir, err := s.packageDir(spec)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotFound
	}

	manifest, err := ReadManifest(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("read manifest for %s: %w", spec, err)
	}

	return &ResolvedPackage{
		Spec:     spec,
		Dir:      dir,
		Manifest: manifest,
	}, nil
}

// StatFile 在包目录内定位 filename 并返回绝对路径与元数据，
// 路径先做 Clean 再校验前缀，防止 ../ 跳出包目录。
func (s *Store) StatFile(pkg *ResolvedPackage, filename string) (string, os.FileInfo, error) {
	abs, err := confine(pkg.Dir, filename)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, err
	}
	return abs, info, nil
}

func (s *Store) packageDir(spec Spec) (string, error) {
	rel := spec.Name + "@" + spec.Version
	dir := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if !strings.HasPrefix(dir, s.basePath+string(filepath.Separator)) {
		return "", ErrEscapesPackage
	}
	return dir, nil
}

// confine 把包内相对路径固定在 baseDir 之下，返回绝对路径。
func confine(baseDir, rel string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimPrefix(rel, "/"))
	abs := filepath.Join(baseDir, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))
	if abs != baseDir && !strings.HasPrefix(abs, baseDir+string(filepath.Separator)) {
		return "", ErrEscapesPackage
	}
	return abs, nil
}
