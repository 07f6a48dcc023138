package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy 去除名称、单位等纯文本字段中的所有标记
var textPolicy = bluemonday.StrictPolicy()

func cleanText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}
