package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

var delimiter = []byte("---")

// extractFrontmatter decodes a leading YAML block into gallery and returns
// the rest of the content. Content without a closed block is returned as is.
func extractFrontmatter(content []byte, gallery *entities.Gallery) ([]byte, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return content, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	end := -1
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), delimiter) {
			end = i
			break
		}
	}
	if end == -1 {
		return content, nil
	}

	block := bytes.Join(lines[1:end], []byte("\n"))
	if len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, gallery); err != nil {
			return nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
	}

	return bytes.Join(lines[end+1:], []byte("\n")), nil
}

// splitSlides splits content on "---" lines, dropping empty slides
func splitSlides(content []byte) [][]byte {
	parts := strings.Split("\n"+string(content)+"\n", "\n---\n")

	slides := make([][]byte, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			slides = append(slides, []byte(trimmed))
		}
	}

	return slides
}
