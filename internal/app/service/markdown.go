package service

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const summaryLength = 200

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	htmlSanitizer  = bluemonday.UGCPolicy()
	plainSanitizer = bluemonday.StrictPolicy()
)

// renderMarkdown 게시글 본문(Markdown) → 안전한 HTML
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return htmlSanitizer.Sanitize(content)
	}
	return htmlSanitizer.Sanitize(buf.String())
}

// plainText 태그를 모두 제거한 텍스트 (댓글 저장, 요약 생성). 엔티티는 원문자로 복원
func plainText(content string) string {
	return strings.TrimSpace(stdhtml.UnescapeString(plainSanitizer.Sanitize(content)))
}

// summarize 본문 앞부분으로 요약 생성
func summarize(content string) string {
	text := strings.Join(strings.Fields(plainText(renderMarkdown(content))), " ")
	runes := []rune(text)
	if len(runes) <= summaryLength {
		return text
	}
	return string(runes[:summaryLength]) + "..."
}
