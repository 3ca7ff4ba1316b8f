// Package render 负责目录索引页与源码预览页的纯模板渲染，
// 模板只依赖显式传入的数据，不做任何 IO。
package render

import (
	"bytes"
	"html/template"
)

// highlightBase 是预览页引用的语法高亮静态资源前缀。
const highlightBase = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0"

// IndexEntry 是索引页的单行数据，由调用方从存储子项映射而来。
type IndexEntry struct {
	Name  string
	Href  string
	IsDir bool
	Size  int64
}

// IndexData 驱动目录索引页模板。
type IndexData struct {
	PackageSpec string
	Path        string
	Entries     []IndexEntry
}

// PreviewData 驱动源码预览页模板，Source 原样嵌入代码块并由模板转义。
type PreviewData struct {
	PackageSpec string
	Path        string
	Language    string
	Source      string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Index of {{.PackageSpec}}{{.Path}}</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
td, th { padding: 0.25rem 1.5rem 0.25rem 0; text-align: left; }
</style>
</head>
<body>
<h1>Index of {{.PackageSpec}}{{.Path}}</h1>
<hr>
<table>
<tr><th>Name</th><th>Size</th></tr>
{{- range .Entries}}
<tr><td><a href="{{.Href}}">{{.Name}}{{if .IsDir}}/{{end}}</a></td><td>{{if .IsDir}}-{{else}}{{.Size}}{{end}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.PackageSpec}}{{.Path}}</title>
<link rel="stylesheet" href="` + highlightBase + `/styles/github.min.css">
<script src="` + highlightBase + `/highlight.min.js"></script>
<script>window.addEventListener('DOMContentLoaded', function () { hljs.highlightAll(); });</script>
<style>
body { margin: 0; }
pre { margin: 0; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<pre><code class="language-{{.Language}}">{{.Source}}</code></pre>
</body>
</html>
`))

// IndexPage 渲染目录索引页。
func IndexPage(data IndexData) (string, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PreviewPage 渲染源码预览页。
func PreviewPage(data PreviewData) (string, error) {
	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
