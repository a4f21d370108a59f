package vault

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
)

// SplitFrontmatter splits markdown text into its raw YAML frontmatter and
// the remaining body. The header must start on the first line with "---"
// and end with a matching "---" line; anything else means no frontmatter.
//
// Parsing is line-based rather than regex-based: a BOM is stripped, and
// tabs inside the header are normalized to two spaces since they are the
// most common hand-editing mistake and YAML forbids them for indentation.
func SplitFrontmatter(text string) (raw, body string, ok bool) {
	text = strings.TrimPrefix(text, "\uFEFF")
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", text, false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return "", text, false
	}

	raw = strings.Join(lines[1:end], "\n")
	body = strings.Join(lines[end+1:], "\n")
	if strings.Contains(raw, "\t") {
		raw = strings.ReplaceAll(raw, "\t", "  ")
	}
	return raw, body, true
}

// ParseNote extracts card records from one note's markdown text.
// filePath is recorded on each card for provenance; line numbers are
// absolute within the file.
//
// Notes without frontmatter, without a cards list, or with a cards key
// that is not a list yield no records and no error — most vault files are
// not flashcard notes. A header that is not valid YAML at all returns an
// INVALID_FRONTMATTER error so the scanner can log and skip the file.
func ParseNote(filePath, text string) ([]graph.CardRecord, error) {
	raw, _, ok := SplitFrontmatter(text)
	if !ok {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFrontmatter, err, "parse frontmatter of %s", filePath)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	meta := doc.Content[0]
	if meta.Kind != yaml.MappingNode {
		return nil, nil
	}

	cards := mapValue(meta, "cards")
	if cards == nil || cards.Kind != yaml.SequenceNode {
		return nil, nil
	}

	// The raw header starts on file line 2 (line 1 is the opening ---),
	// so yaml's 1-based line numbers are offset by one.
	const lineOffset = 1

	var records []graph.CardRecord
	for _, card := range cards.Content {
		if card.Kind != yaml.MappingNode {
			continue
		}
		rec := graph.CardRecord{
			ID:       scalarValue(mapValue(card, "id")),
			FilePath: filePath,
			Line:     card.Line + lineOffset,
		}

		if fields := mapValue(card, "fields"); fields != nil && fields.Kind == yaml.MappingNode {
			rec.Title = scalarValue(mapValue(fields, "Front"))
		}

		if deps := mapValue(card, "deps"); deps != nil && deps.Kind == yaml.MappingNode {
			rec.Requires = stringList(mapValue(deps, "requires"))
			rec.Related = stringList(mapValue(deps, "related"))
		}

		records = append(records, rec)
	}
	return records, nil
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// scalarValue returns the string value of a scalar node, or "".
func scalarValue(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// stringList decodes a sequence of scalars. Anything that is not a
// sequence (a bare string, a mapping, nothing) is treated as empty: a
// malformed deps list disables that card's edges without failing the
// card, let alone the file.
func stringList(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	var values []string
	for _, item := range n.Content {
		if item.Kind == yaml.ScalarNode && item.Value != "" {
			values = append(values, item.Value)
		}
	}
	return values
}
