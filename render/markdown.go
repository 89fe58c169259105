package render

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"

	"hotel-reviews/models"
)

// Markdown renders the static dashboard and converts it to Markdown
func Markdown(page *models.Page) (string, error) {
	var buf bytes.Buffer
	if err := StaticHTML(&buf, page); err != nil {
		return "", err
	}

	content, err := md.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("failed to convert dashboard to markdown: %w", err)
	}
	return strings.TrimSpace(content) + "\n", nil
}
