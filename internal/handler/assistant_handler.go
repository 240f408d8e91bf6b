package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// 助手回复使用 Markdown，预览接口把它渲染为净化后的 HTML
var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type assistantPayload struct {
	Query string `json:"query"`
}

// AskAssistant 处理自然语言查询并返回 Markdown 回复
func (a *API) AskAssistant(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload assistantPayload
	if !bindJSON(c, &payload, "invalid assistant payload") {
		return
	}

	reply := a.assistant.ProcessQuery(c.Request.Context(), userID, payload.Query)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// AskAssistantHTML 处理查询并返回渲染净化后的 HTML 回复
func (a *API) AskAssistantHTML(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload assistantPayload
	if !bindJSON(c, &payload, "invalid assistant payload") {
		return
	}

	reply := a.assistant.ProcessQuery(c.Request.Context(), userID, payload.Query)

	rendered, err := renderMarkdown(reply)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply, "html": rendered})
}

func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return strings.TrimSpace(string(safe)), nil
}
