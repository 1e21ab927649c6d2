package offline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/pkg/textx"
)

type jobSection int

const (
	sectionNone jobSection = iota
	sectionRequired
	sectionPreferred
	sectionResponsibilities
)

var (
	companyRe = regexp.MustCompile(`(?i)^company\s*[:\-]\s*(.+)$`)
	salaryRe  = regexp.MustCompile(`\$\s*(\d[\d,]*)\s*(?:k\b)?\s*(?:-|–|—|to)\s*\$?\s*(\d[\d,]*)\s*(k\b)?`)
)

// ExtractJob derives a canonical job profile from plain text. The title is
// the first non-empty line; required vs preferred skills are split by
// section headers, attributing bullet lines to the most recent header.
func (e *Engine) ExtractJob(text string) domain.JobProfile {
	lines := textx.Lines(text)
	p := domain.JobProfile{
		Title:              textx.FirstNonEmptyLine(text),
		ExperienceLevel:    inferLevel(text),
		MinExperienceYears: extractMinYears(text),
		EmploymentType:     inferEmployment(text),
	}

	section := sectionNone
	var requiredText, preferredText []string
	for i, l := range lines {
		if i == 0 {
			continue // title
		}
		if m := companyRe.FindStringSubmatch(l); m != nil {
			p.Company = strings.TrimSpace(m[1])
			continue
		}
		if m := locationRe.FindStringSubmatch(l); m != nil {
			p.Location = strings.TrimSpace(m[1])
			continue
		}
		if s, ok := sectionFor(l); ok {
			section = s
			continue
		}
		switch section {
		case sectionRequired:
			requiredText = append(requiredText, l)
		case sectionPreferred:
			preferredText = append(preferredText, l)
		case sectionResponsibilities:
			p.Responsibilities = append(p.Responsibilities, strings.TrimLeft(l, "-•* "))
		default:
			if len(p.Summary) < 400 {
				p.Summary = strings.TrimSpace(p.Summary + " " + l)
			}
		}
	}

	p.RequiredSkills = e.matchVocabulary(strings.Join(requiredText, "\n"))
	p.PreferredSkills = e.matchVocabulary(strings.Join(preferredText, "\n"))
	// Preferred never repeats a required skill.
	p.PreferredSkills = subtractSkills(p.PreferredSkills, p.RequiredSkills)
	if len(p.RequiredSkills) == 0 {
		// No sections found: fall back to vocabulary matches over the whole text.
		p.RequiredSkills = e.matchVocabulary(text)
		p.RequiredSkills = subtractSkills(p.RequiredSkills, p.PreferredSkills)
	}

	if p.Location == "" && regexp.MustCompile(`(?i)\bremote\b`).MatchString(text) {
		p.Location = "Remote"
	}
	if m := salaryRe.FindStringSubmatch(text); m != nil {
		// "$90k - $120k" style scales both ends; bare numbers under 1000
		// are treated as thousands too.
		lo := parseAmount(m[1], m[3] != "")
		hi := parseAmount(m[2], m[3] != "")
		if lo > 0 && hi >= lo {
			p.SalaryRange = &domain.SalaryRange{Min: lo, Max: hi}
		}
	}
	return p
}

// sectionFor classifies a line as a section header. Headers are short lines
// naming the section, optionally ending with a colon.
func sectionFor(l string) (jobSection, bool) {
	w := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(l), ":"))
	if len(w) > 40 {
		return sectionNone, false
	}
	switch {
	case strings.Contains(w, "nice to have"), strings.Contains(w, "preferred"), strings.Contains(w, "bonus"):
		return sectionPreferred, true
	case strings.Contains(w, "requirement"), strings.Contains(w, "qualification"), strings.Contains(w, "must have"):
		return sectionRequired, true
	case strings.Contains(w, "responsibilit"), strings.Contains(w, "what you'll do"), strings.Contains(w, "duties"):
		return sectionResponsibilities, true
	}
	return sectionNone, false
}

func subtractSkills(from, remove []string) []string {
	seen := make(map[string]struct{}, len(remove))
	for _, s := range remove {
		seen[domain.NormalizeSkill(s)] = struct{}{}
	}
	out := make([]string, 0, len(from))
	for _, s := range from {
		if _, ok := seen[domain.NormalizeSkill(s)]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func inferLevel(text string) domain.ExperienceLevel {
	lower := strings.ToLower(text)
	switch {
	case containsWord(lower, "director"), containsWord(lower, "vp"), strings.Contains(lower, "head of"):
		return domain.LevelExecutive
	case containsWord(lower, "senior"), containsWord(lower, "lead"), containsWord(lower, "principal"):
		return domain.LevelSenior
	case containsWord(lower, "entry"), containsWord(lower, "junior"), associateLevel(lower):
		return domain.LevelEntry
	default:
		return domain.LevelMid
	}
}

// containsWord reports whether w occurs in lower as a whole word, so "vp"
// does not match inside "mvp" and "lead" does not match "leadership".
func containsWord(lower, w string) bool {
	from := 0
	for {
		pos := strings.Index(lower[from:], w)
		if pos < 0 {
			return false
		}
		pos += from
		if !alnumAt(lower, pos-1) && !alnumAt(lower, pos+len(w)) {
			return true
		}
		from = pos + 1
	}
}

// associateLevel distinguishes an "Associate Engineer" title from degree
// mentions like "Associate of Arts" or "associate degree required".
func associateLevel(lower string) bool {
	from := 0
	for {
		pos := strings.Index(lower[from:], "associate")
		if pos < 0 {
			return false
		}
		pos += from
		rest := lower[pos+len("associate"):]
		degree := false
		for _, suffix := range []string{" degree", "'s degree", " of arts", " of science"} {
			if strings.HasPrefix(rest, suffix) {
				degree = true
				break
			}
		}
		if !degree && !alnumAt(lower, pos-1) && !alnumAt(lower, pos+len("associate")) {
			return true
		}
		from = pos + 1
	}
}

func extractMinYears(text string) int {
	best := domain.UnknownYears
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	return best
}

func inferEmployment(text string) domain.EmploymentType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "part-time"), strings.Contains(lower, "part time"):
		return domain.EmploymentPartTime
	case strings.Contains(lower, "contract"), strings.Contains(lower, "freelance"):
		return domain.EmploymentContract
	case strings.Contains(lower, "full-time"), strings.Contains(lower, "full time"), strings.Contains(lower, "permanent"):
		return domain.EmploymentFullTime
	default:
		return domain.EmploymentUnknown
	}
}

func parseAmount(s string, thousands bool) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	if thousands || n < 1000 {
		n *= 1000
	}
	return n
}
