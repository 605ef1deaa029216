package knowledge

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// AddHTML converts an HTML page (a help-center article, an exported FAQ) to
// Markdown and indexes the result. The conversion keeps headings, lists, and
// links readable so the document works as prompt context.
func (idx *Index) AddHTML(html string, metadata map[string]string) error {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return fmt.Errorf("failed to convert HTML document: %w", err)
	}
	idx.Add(markdown, metadata)
	return nil
}
