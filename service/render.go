package service

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown   goldmark.Markdown
	ugcPolicy  *bluemonday.Policy
	renderOnce sync.Once
)

func initRender() {
	renderOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
		ugcPolicy = bluemonday.UGCPolicy()
	})
}

// RenderMarkdown 将博客正文转为 html，输出经过 UGC 策略过滤
func RenderMarkdown(content string) (string, error) {
	initRender()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "markdown.Convert failed")
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// TextToHTML 评论按纯文本处理，每个非空行转义后包成一个段落
func TextToHTML(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(line))
		sb.WriteString("</p>")
	}
	return sb.String()
}
