package packstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Manifest 是 package.json 中与分发相关的字段子集。
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Main             string            `json:"main"`
	Module           string            `json:"module"`
	Unpkg            string            `json:"unpkg"`
	Dependencies     map[string]string `json:"dependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// ReadManifest 解析磁盘上的 package.json；文件缺失或语法错误都视为解析失败。
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &m, nil
}

// DependencyMap 合并 peerDependencies 与 dependencies，
// 键冲突时 dependencies 优先；每次请求派生一份，调用方只读。
func (m *Manifest) DependencyMap() map[string]string {
	merged := make(map[string]string, len(m.Dependencies)+len(m.PeerDependencies))
	for name, rng := range m.PeerDependencies {
		merged[name] = rng
	}
	for name, rng := range m.Dependencies {
		merged[name] = rng
	}
	return merged
}

// EntryPoint 返回裸请求应重定向到的包内路径，unpkg 字段优先；
// module 模式下优先 ESM 入口。找不到任何入口时退回 /index.js。
func (m *Manifest) EntryPoint(preferModule bool) string {
	candidates := []string{m.Unpkg, m.Module, m.Main}
	if preferModule {
		candidates = []string{m.Module, m.Unpkg, m.Main}
	}
	for _, entry := range candidates {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		entry = strings.TrimPrefix(entry, "./")
		return "/" + entry
	}
	return "/index.js"
}
