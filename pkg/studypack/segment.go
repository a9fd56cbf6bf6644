package studypack

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Pack is the segmented study pack: four named sections, each allowed to
// be empty. Concatenating the fields in order reproduces the model
// response minus marker tokens and surrounding whitespace.
type Pack struct {
	Textbook     string `json:"textbook"`
	Flashcards   string `json:"flashcards"`
	QuestionBank string `json:"questionBank"`
	Exam         string `json:"exam"`
}

var sectionTokens = []string{TokenTextbook, TokenFlashcards, TokenQuestionBank, TokenExam}

// Segment partitions one untrusted model response into the four sections
// using ordered first-match marker search. It is total: it never fails for
// any input, including the empty string.
//
// Missing markers short-circuit: if FLASHCARDS is absent the whole
// response becomes the textbook and the rest stay empty; each later absent
// marker leaves the remaining fields empty. The returned slice lists the
// markers that were not found, for degrade logging.
//
// Known limitation: a canonical token appearing inside prose of an earlier
// section still wins the first-match split. Marker order is fixed and must
// not be reordered for the same reason.
func Segment(raw string) (Pack, []string) {
	norm := canonicalizeHeadings(raw)
	var missing []string

	head, rest, ok := cutToken(norm, TokenFlashcards)
	if !ok {
		missing = append(missing, TokenFlashcards)
	}
	var p Pack
	p.Textbook = strings.TrimSpace(stripTextbookToken(head))

	flash, rest, ok := cutToken(rest, TokenQuestionBank)
	if !ok {
		missing = append(missing, TokenQuestionBank)
	}
	p.Flashcards = strings.TrimSpace(flash)

	bank, exam, ok := cutToken(rest, TokenExam)
	if !ok {
		missing = append(missing, TokenExam)
	}
	p.QuestionBank = strings.TrimSpace(bank)
	p.Exam = strings.TrimSpace(exam)

	return p, missing
}

// cutToken splits s at the first occurrence of tok. When tok is absent,
// everything stays in before and after is empty — the defined degrade
// path, not an error.
func cutToken(s, tok string) (before, after string, found bool) {
	i := strings.Index(s, tok)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(tok):], true
}

// stripTextbookToken drops the TEXTBOOK marker if it opens the section.
func stripTextbookToken(s string) string {
	t := strings.TrimLeft(s, " \t\r\n")
	if strings.HasPrefix(t, TokenTextbook) {
		return t[len(TokenTextbook):]
	}
	return s
}

// canonicalizeHeadings rewrites heading lines that are recognizable
// variants of a section token ("Flashcards", "## FLASHCARDS:",
// "2. Question Bank") to the exact canonical token, leaving every other
// line untouched. Only whole lines are rewritten, so prose that merely
// mentions a section name is not turned into a marker.
func canonicalizeHeadings(s string) string {
	lines := strings.Split(s, "\n")
	changed := false
	for i, line := range lines {
		if tok, ok := matchHeading(line); ok && line != tok {
			lines[i] = tok
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(lines, "\n")
}

// maxHeadingLen bounds the lines considered heading candidates; anything
// longer is prose.
const maxHeadingLen = 64

func matchHeading(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if t == "" || len(t) > maxHeadingLen {
		return "", false
	}

	// Peel markdown and list decorations: "## Flashcards:", "**EXAM
	// TEMPLATE**", "2. Question Bank".
	t = strings.TrimLeft(t, "#*_ ")
	t = trimListPrefix(t)
	t = strings.TrimRight(t, ":*_# ")
	t = strings.TrimSpace(t)
	if t == "" {
		return "", false
	}

	u := strings.ToUpper(t)
	for _, tok := range sectionTokens {
		if u == tok {
			return tok, true
		}
		// Tolerate one-character typos and near-variants
		// ("FLASHCARD", "QUESTION BANKS").
		if levenshtein.Distance(u, tok, nil) <= 1 {
			return tok, true
		}
	}
	return "", false
}

// trimListPrefix strips a leading ordinal like "1." or "3)".
func trimListPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] == '.' || s[i] == ')' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
