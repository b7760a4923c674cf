package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

// Regex semantics are stable per spec §4.3 and must not change shape.
var (
	frontMatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)
	wikilinkRe    = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	headingRe     = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	inlineTagRe   = regexp.MustCompile(`(?:^|\s)#([A-Za-z][\w\-/]*)`)
)

type rawHeader struct {
	Type    string   `yaml:"type"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
	Tags    []string `yaml:"tags"`
}

// Parse turns raw note content into a Note (spec §4.3a).
func Parse(content string) (*Note, error) {
	m := frontMatterRe.FindStringSubmatch(content)
	if m == nil {
		return nil, appErrors.NewParse("note missing front matter", nil)
	}
	var raw rawHeader
	if err := yaml.Unmarshal([]byte(m[1]), &raw); err != nil {
		return nil, appErrors.NewParse("malformed front matter", err)
	}

	header := Header{Type: raw.Type, Tags: raw.Tags}
	if raw.Created != "" {
		if t, err := time.Parse(TimestampLayout, raw.Created); err == nil {
			header.Created = t
		}
	}
	if raw.Updated != "" {
		if t, err := time.Parse(TimestampLayout, raw.Updated); err == nil {
			header.Updated = t
		}
	}

	body := content[len(m[0]):]
	entityName, sections := parseBody(body)

	return &Note{Header: header, EntityName: entityName, Sections: sections}, nil
}

// parseBody splits the body after the front matter into the entity heading
// (the `# Name` line) and the ordered level-2 sections that follow.
func parseBody(body string) (entityName string, sections []Section) {
	locs := headingRe.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return "", nil
	}

	firstLevel := body[locs[0][2]:locs[0][3]]
	if len(firstLevel) == 1 {
		entityName = strings.TrimSpace(body[locs[0][4]:locs[0][5]])
	}

	for i := 1; i < len(locs); i++ {
		loc := locs[i]
		level := len(body[loc[2]:loc[3]])
		title := strings.TrimSpace(body[loc[4]:loc[5]])

		contentStart := loc[1]
		contentEnd := len(body)
		if i+1 < len(locs) {
			contentEnd = locs[i+1][0]
		}
		sections = append(sections, Section{
			Level: level,
			Title: title,
			Body:  strings.Trim(body[contentStart:contentEnd], "\n"),
		})
	}
	return entityName, sections
}

// ExtractWikilinks returns every `[[Target]]` / `[[Target|Alias]]` occurrence
// in text together with ±80 chars of surrounding context (spec §4.3b).
func ExtractWikilinks(text string) []Wikilink {
	const radius = 80
	var out []Wikilink
	for _, loc := range wikilinkRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		ctxStart := start - radius
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + radius
		if ctxEnd > len(text) {
			ctxEnd = len(text)
		}
		target := text[loc[2]:loc[3]]
		alias := ""
		if loc[4] != -1 {
			alias = text[loc[4]:loc[5]]
		}
		out = append(out, Wikilink{
			Target:  target,
			Alias:   alias,
			Context: text[ctxStart:ctxEnd],
		})
	}
	return out
}

// ExtractTags returns every inline `#tag` occurrence in text (spec §4.3c).
func ExtractTags(text string) []string {
	matches := inlineTagRe.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// FormatTimestamp renders t in the header's stable format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ValidateEntityName rejects names that cannot round-trip through a heading.
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("markdown: entity name must not be empty")
	}
	return nil
}
