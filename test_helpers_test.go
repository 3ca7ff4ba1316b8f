package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// projectRoot 从当前源文件向上查找 go.mod 所在目录。
func projectRoot(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("无法定位当前源文件")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("向上查找未发现 go.mod")
		}
		dir = parent
	}
}

// configFixture 返回 internal/config/testdata 下指定夹具的绝对路径。
func configFixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(projectRoot(t), "internal", "config", "testdata", name)
}
