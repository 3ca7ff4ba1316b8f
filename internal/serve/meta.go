package serve

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pkg-edge/pkg-edge/internal/contenttype"
)

// MaxDepth 限制元数据树的最大深度，以约束病态目录/循环符号链接上的工作量。
const MaxDepth = 128

// walkConcurrency 限制单个目录内并发 stat 的子项数量。
const walkConcurrency = 8

// openDir 与 entryInfo 是遍历的文件系统触点，测试通过替换注入故障。
var (
	openDir   = os.Open
	entryInfo = func(entry os.DirEntry) (os.FileInfo, error) { return entry.Info() }
)

// Node 是元数据树节点：文件节点携带 size/type，目录节点携带 files。
type Node struct {
	Path  string
	Size  int64
	Type  string
	Dir   bool
	Files []*Node
}

type fileNodeJSON struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type dirNodeJSON struct {
	Path  string  `json:"path"`
	Files []*Node `json:"files"`
}

// MarshalJSON 按节点种类输出两种形状；目录的 files 永远是数组（可为空）。
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Dir {
		files := n.Files
		if files == nil {
			files = []*Node{}
		}
		return json.Marshal(dirNodeJSON{Path: n.Path, Files: files})
	}
	return json.Marshal(fileNodeJSON{Path: n.Path, Size: n.Size, Type: n.Type})
}

// Depth 返回以该节点为根的子树深度，根自身为 0；用于测试断言。
func (n *Node) Depth() int {
	deepest := 0
	for _, child := range n.Files {
		if d := child.Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Walk 把 rootDir 下 relPath 指向的子树枚举为元数据树。
// 文件直接产出文件节点；目录在深度限制内递归，单个子项 stat 失败
// 只跳过该项，仅根路径不可读才作为错误向上传播。
func Walk(ctx context.Context, rootDir, relPath string, stats os.FileInfo, maxDepth int) (*Node, error) {
	rel := normalizeRel(relPath)
	if !stats.IsDir() {
		return fileNode(rel, stats.Size()), nil
	}

	abs := filepath.Join(rootDir, filepath.FromSlash(rel))
	node := dirNode(rel)
	if err := walkInto(ctx, node, abs, rel, 0, maxDepth, true); err != nil {
		return nil, err
	}
	return node, nil
}

// walkInto 枚举 abs 目录的子项并挂到 node 上；子项保持文件系统枚举顺序，
// stat 与子目录递归在有界并发下执行，结果按原始槽位回填保证顺序不变。
func walkInto(ctx context.Context, node *Node, abs, rel string, depth, maxDepth int, isRoot bool) error {
	f, err := openDir(abs)
	if err != nil {
		if isRoot {
			return err
		}
		return nil
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		if isRoot {
			return err
		}
		return nil
	}

	results := make([]*Node, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(walkConcurrency)

	for i, entry := range entries {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			childRel := path.Join(rel, entry.Name())
			info, err := entryInfo(entry)
			if err != nil {
				return nil // 单项失败跳过，不中断整个遍历
			}
			if !info.IsDir() {
				results[i] = fileNode(childRel, info.Size())
				return nil
			}

			child := dirNode(childRel)
			if depth+1 < maxDepth {
				childAbs := filepath.Join(abs, entry.Name())
				if err := walkInto(gctx, child, childAbs, childRel, depth+1, maxDepth, false); err != nil {
					return err
				}
			}
			results[i] = child
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, child := range results {
		if child != nil {
			node.Files = append(node.Files, child)
		}
	}
	return nil
}

func normalizeRel(relPath string) string {
	rel := path.Clean("/" + relPath)
	return rel
}

func fileNode(rel string, size int64) *Node {
	return &Node{Path: rel, Size: size, Type: contenttype.Resolve(rel)}
}

func dirNode(rel string) *Node {
	return &Node{Path: rel, Dir: true, Files: []*Node{}}
}

func (d *Dispatcher) serveMeta(c fiber.Ctx, req *Request) error {
	node, err := Walk(c.Context(), req.PackageDir, req.Filename, req.Stats, MaxDepth)
	if err != nil {
		msg := Sanitize(err.Error(), req.PackageDir, req.PackageSpec)
		return d.fail(c, req, "meta", IOFailure(msg))
	}

	d.applyPolicy(c, MetaPolicy())
	return c.JSON(node, "application/json")
}
