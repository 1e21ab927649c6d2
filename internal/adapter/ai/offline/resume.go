package offline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/pkg/textx"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// Digit groups of total length 7-15, allowing common separators.
	phoneRe   = regexp.MustCompile(`\+?\d[\d\s().-]{5,18}\d`)
	networkRe = regexp.MustCompile(`(?i)(?:linkedin\.com/in/|github\.com/)([A-Za-z0-9_-]+)`)
	yearsRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs)\b`)
	// "2019 - 2023", "2019 – Present"
	yearRangeRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*[-–—]\s*((?:19|20)\d{2}|present|current)\b`)
	locationRe   = regexp.MustCompile(`(?i)^location\s*[:\-]\s*(.+)$`)
	summaryHdrRe = regexp.MustCompile(`(?i)^(professional\s+)?(summary|objective|profile)\s*:?\s*$`)
	certRe       = regexp.MustCompile(`(?i)\b(certified|certification|certificate)\b`)
)

var degreeKeywords = []string{"phd", "ph.d", "doctorate", "master", "mba", "bachelor", "b.s", "b.a", "associate", "diploma"}

// ExtractResume derives a canonical resume profile from plain text using
// rule-based heuristics. Deterministic and valid by construction: profiles
// built here always pass canonical validation for non-empty input because
// the summary synthesis guarantees at least one usable field.
func (e *Engine) ExtractResume(text string) domain.ResumeProfile {
	lines := textx.Lines(text)
	p := domain.ResumeProfile{
		Name:            extractName(lines),
		Skills:          e.matchVocabulary(text),
		ExperienceYears: domain.UnknownYears,
	}
	p.Contact = extractContact(text, lines)
	p.Summary = extractSummary(lines)
	p.WorkHistory = extractWorkHistory(lines)
	p.Education = extractEducation(lines)
	p.Certifications = extractCertifications(lines)

	p.ExperienceYears = extractExperienceYears(text, p.WorkHistory)

	if p.Summary == "" {
		p.Summary = synthesizeSummary(p)
	}
	return p
}

// extractName takes the first line when it looks like a person's name:
// a capitalized word sequence of at most 5 tokens with no digits.
func extractName(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	first := lines[0]
	if strings.ContainsAny(first, "0123456789@") {
		return ""
	}
	tokens := strings.Fields(first)
	if len(tokens) == 0 || len(tokens) > 5 {
		return ""
	}
	for _, t := range tokens {
		r := []rune(t)
		if r[0] < 'A' || r[0] > 'Z' {
			return ""
		}
	}
	return first
}

func extractContact(text string, lines []string) domain.Contact {
	c := domain.Contact{}
	if m := emailRe.FindString(text); m != "" {
		c.Email = m
	}
	if m := networkRe.FindString(text); m != "" {
		c.Network = m
	}
	for _, cand := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range cand {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		// Reject year ranges and longer numerics masquerading as phones.
		if digits >= 7 && digits <= 15 && !yearRangeRe.MatchString(cand) {
			c.Phone = strings.TrimSpace(cand)
			break
		}
	}
	for _, l := range lines {
		if m := locationRe.FindStringSubmatch(l); m != nil {
			c.Location = strings.TrimSpace(m[1])
			break
		}
	}
	return c
}

func extractSummary(lines []string) string {
	for i, l := range lines {
		if !summaryHdrRe.MatchString(l) {
			continue
		}
		var parts []string
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if isSectionHeader(lines[j]) {
				break
			}
			parts = append(parts, lines[j])
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func isSectionHeader(l string) bool {
	w := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(l), ":"))
	switch w {
	case "experience", "work experience", "work history", "employment",
		"education", "skills", "certifications", "projects", "summary",
		"objective", "profile":
		return true
	}
	return false
}

// matchVocabulary returns every vocabulary entry found in the text as a
// case-insensitive substring, ordered by first occurrence, duplicates
// collapsed. Entries of one or two letters ("R", "Go") additionally require
// non-alphanumeric neighbors, otherwise they hit inside unrelated words.
func (e *Engine) matchVocabulary(text string) []string {
	lower := strings.ToLower(text)
	type hit struct {
		skill string
		pos   int
	}
	var hits []hit
	for _, skill := range e.vocab {
		if pos := findSkill(lower, strings.ToLower(skill)); pos >= 0 {
			hits = append(hits, hit{skill: skill, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.skill
	}
	return domain.DedupeSkills(out)
}

func findSkill(lowerText, lowerSkill string) int {
	if len(lowerSkill) > 2 {
		return strings.Index(lowerText, lowerSkill)
	}
	from := 0
	for {
		pos := strings.Index(lowerText[from:], lowerSkill)
		if pos < 0 {
			return -1
		}
		pos += from
		if !alnumAt(lowerText, pos-1) && !alnumAt(lowerText, pos+len(lowerSkill)) {
			return pos
		}
		from = pos + 1
	}
}

func alnumAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// extractExperienceYears prefers explicit "<n> years" statements (maximum
// across matches), falling back to the span of the parsed work history.
func extractExperienceYears(text string, history []domain.WorkEntry) int {
	best := domain.UnknownYears
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	if best != domain.UnknownYears {
		return best
	}
	earliest, latest := 0, 0
	for _, w := range history {
		start, _ := strconv.Atoi(w.Start)
		end := resolveEndYear(w.End)
		if start == 0 {
			continue
		}
		if earliest == 0 || start < earliest {
			earliest = start
		}
		if end > latest {
			latest = end
		}
	}
	if earliest > 0 && latest >= earliest {
		return latest - earliest
	}
	return domain.UnknownYears
}

func resolveEndYear(end string) int {
	if strings.EqualFold(end, "present") || strings.EqualFold(end, "current") {
		return time.Now().Year()
	}
	y, _ := strconv.Atoi(end)
	return y
}

// extractWorkHistory recognizes lines carrying a "YYYY - YYYY" or
// "YYYY - Present" range. The title is the text before the range on the
// same line, or the preceding line when the range stands alone; a
// "Title at Company" or "Title, Company" split yields the company.
func extractWorkHistory(lines []string) []domain.WorkEntry {
	var out []domain.WorkEntry
	for i, l := range lines {
		m := yearRangeRe.FindStringSubmatchIndex(l)
		if m == nil {
			continue
		}
		entry := domain.WorkEntry{
			Start: l[m[2]:m[3]],
			End:   l[m[4]:m[5]],
		}
		head := strings.Trim(strings.TrimSpace(l[:m[0]]), ",|-–—()")
		if head == "" && i > 0 && !yearRangeRe.MatchString(lines[i-1]) {
			head = lines[i-1]
		}
		entry.Title, entry.Company = splitTitleCompany(head)
		out = append(out, entry)
	}
	return out
}

func splitTitleCompany(head string) (title, company string) {
	head = strings.TrimSpace(head)
	for _, sep := range []string{" at ", " @ ", ", ", " - ", " | "} {
		if idx := strings.Index(head, sep); idx > 0 {
			return strings.TrimSpace(head[:idx]), strings.TrimSpace(head[idx+len(sep):])
		}
	}
	return head, ""
}

var eduYearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// extractEducation finds lines containing a degree keyword. Comma-separated
// lines like "B.S. Computer Science, Stanford University, 2016" split into
// degree, institution and year; otherwise the following line is used as the
// institution when it names one.
func extractEducation(lines []string) []domain.EducationEntry {
	var out []domain.EducationEntry
	for i, l := range lines {
		lower := strings.ToLower(l)
		found := false
		for _, k := range degreeKeywords {
			if strings.Contains(lower, k) {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		e := domain.EducationEntry{Degree: l}
		if segs := strings.Split(l, ","); len(segs) > 1 {
			e.Degree = strings.TrimSpace(segs[0])
			for _, s := range segs[1:] {
				s = strings.TrimSpace(s)
				if s == "" || eduYearRe.MatchString(s) && len(s) <= 6 {
					continue
				}
				e.Institution = s
				if looksLikeInstitution(s) {
					break
				}
			}
		} else if i+1 < len(lines) && looksLikeInstitution(lines[i+1]) {
			e.Institution = lines[i+1]
		}
		if y := eduYearRe.FindString(l); y != "" {
			e.Year = y
		}
		out = append(out, e)
	}
	return out
}

func looksLikeInstitution(l string) bool {
	lower := strings.ToLower(l)
	return strings.Contains(lower, "university") || strings.Contains(lower, "college") || strings.Contains(lower, "institute") || strings.Contains(lower, "school")
}

func extractCertifications(lines []string) []string {
	var out []string
	for _, l := range lines {
		if certRe.MatchString(l) && !isSectionHeader(l) {
			out = append(out, strings.TrimLeft(l, "-•* "))
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

func synthesizeSummary(p domain.ResumeProfile) string {
	var parts []string
	if p.ExperienceYears > 0 {
		parts = append(parts, strconv.Itoa(p.ExperienceYears)+" years of experience")
	}
	if len(p.Skills) > 0 {
		top := p.Skills
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, "skilled in "+strings.Join(top, ", "))
	}
	if len(parts) == 0 {
		// Terminal guarantee: the offline profile is never unusable, so a
		// resume with no recognizable signals still carries a summary.
		return "Candidate profile extracted heuristically; manual review recommended."
	}
	return "Candidate with " + strings.Join(parts, ", ") + "."
}
