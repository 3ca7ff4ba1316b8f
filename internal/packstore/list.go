package packstore

import (
	"context"
	"os"
	"sort"
)

// DirEntry 描述目录索引页需要的单个子项信息。
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Lister 是目录索引的子项枚举协作方，测试可注入失败实现。
type Lister func(ctx context.Context, absDir string) ([]DirEntry, error)

// ListEntries 枚举目录的直接子项（不递归），目录在前、组内按名称排序，
// 保证索引页展示稳定。单个子项 stat 失败时跳过该项。
func ListEntries(ctx context.Context, absDir string) ([]DirEntry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	result := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		item := DirEntry{Name: entry.Name(), IsDir: entry.IsDir()}
		if !item.IsDir {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			item.Size = info.Size()
		}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsDir != result[j].IsDir {
			return result[i].IsDir
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}
