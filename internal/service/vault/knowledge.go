package vault

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alibaizhanov/mengram/internal/domain/episode"
	"github.com/alibaizhanov/mengram/internal/domain/procedure"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
)

// knowledgeTitleRe matches a Knowledge entry header: "**[type] title** (date)".
var knowledgeTitleRe = regexp.MustCompile(`^\*\*\[[^\]]+\]\s+(.+?)\*\*`)

// hasKnowledgeTitle reports whether title already appears in note's
// Knowledge section (spec §3.3 #4: "knowledge-entry uniqueness").
func hasKnowledgeTitle(note *markdown.Note, title string) bool {
	k := note.FindSection("Knowledge")
	if k == nil {
		return false
	}
	for _, line := range strings.Split(k.Body, "\n") {
		if m := knowledgeTitleRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if strings.EqualFold(strings.TrimSpace(m[1]), title) {
				return true
			}
		}
	}
	return false
}

// knowledgeBlock renders a knowledge entry as its note block (spec §3.5).
func knowledgeBlock(kind, title, date, content, language, artifact string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**[%s] %s** (%s)\n%s\n", kind, title, date, content)
	if artifact != "" {
		lang := language
		if lang == "" {
			lang = "text"
		}
		fmt.Fprintf(&b, "\n```%s\n%s\n```\n", lang, artifact)
	}
	return b.String()
}

// appendKnowledgeToSection appends block to note's Knowledge section,
// separated by a blank line from whatever is already there.
func appendKnowledgeToSection(note *markdown.Note, block string) {
	if s := note.FindSection("Knowledge"); s != nil {
		s.Body = strings.TrimRight(s.Body, "\n")
		if s.Body == "" {
			s.Body = block
		} else {
			s.Body = s.Body + "\n\n" + block
		}
		return
	}
	note.Sections = append(note.Sections, markdown.Section{Level: 2, Title: "Knowledge", Body: block})
}

// episodeBlock renders an Episode (spec §3.2) as an "## Episodes" entry on
// a participant's note.
func episodeBlock(e episode.Episode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", e.Summary)
	if e.HappenedAt != "" {
		fmt.Fprintf(&b, " (%s)", e.HappenedAt)
	}
	b.WriteString("\n")
	if e.Context != "" {
		fmt.Fprintf(&b, "context: %s\n", e.Context)
	}
	if e.Outcome != "" {
		fmt.Fprintf(&b, "outcome: %s\n", e.Outcome)
	}
	fmt.Fprintf(&b, "valence: %s | importance: %.2f", e.Valence, e.Importance)
	return b.String()
}

func appendEpisode(note *markdown.Note, e episode.Episode) {
	block := episodeBlock(e)
	if s := note.FindSection("Episodes"); s != nil {
		s.Body = strings.TrimRight(s.Body, "\n")
		if s.Body == "" {
			s.Body = block
		} else {
			s.Body = s.Body + "\n\n" + block
		}
		return
	}
	note.Sections = append(note.Sections, markdown.Section{Level: 2, Title: "Episodes", Body: block})
}

// procedureBlock renders a Procedure (spec §3.2) as a "## Procedures" entry.
func procedureBlock(p procedure.Procedure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** — trigger: %s\n", p.Name, p.Trigger)
	for i, step := range p.Steps {
		if step.Detail != "" {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, step.Action, step.Detail)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step.Action)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func appendProcedure(note *markdown.Note, p procedure.Procedure) {
	block := procedureBlock(p)
	if s := note.FindSection("Procedures"); s != nil {
		s.Body = strings.TrimRight(s.Body, "\n")
		if s.Body == "" {
			s.Body = block
		} else {
			s.Body = s.Body + "\n\n" + block
		}
		return
	}
	note.Sections = append(note.Sections, markdown.Section{Level: 2, Title: "Procedures", Body: block})
}
