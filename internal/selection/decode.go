package selection

import (
	"regexp"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/catalog"
)

var (
	gradePattern   = regexp.MustCompile(`\[(.*?)\]`)
	subjectPattern = regexp.MustCompile(`\((.*?)\)`)
)

// GradePresence is the decoded view of one grade inside a detail string.
type GradePresence struct {
	Grade    string          `json:"grade"`
	Subjects []string        `json:"subjects"`
	Present  map[string]bool `json:"present"`
	// Count is the number of distinct items attributed to a subject.
	Count int `json:"count"`
	// Tokens is the number of tokens seen for this grade, attributed or not.
	Tokens int `json:"tokens"`
}

// Row returns presence flags aligned with Subjects.
func (g GradePresence) Row() []bool {
	row := make([]bool, len(g.Subjects))
	for i, s := range g.Subjects {
		row[i] = g.Present[s]
	}
	return row
}

// Decoded holds the grades referenced by a detail string, in order of first
// appearance.
type Decoded struct {
	Grades []GradePresence `json:"grades"`
}

// Grade returns the presence for grade, if the detail referenced it.
func (d Decoded) Grade(grade string) (GradePresence, bool) {
	for _, g := range d.Grades {
		if g.Grade == grade {
			return g, true
		}
	}
	return GradePresence{}, false
}

// Decode rebuilds per-grade subject presence from a stored detail string.
//
// Tokens without a bracketed grade, tokens for grades missing from the
// catalog and tokens whose subject cannot be resolved are skipped; Decode
// never fails. The same item listed twice is counted once.
func Decode(detail string, c *catalog.Catalog) Decoded {
	var out Decoded
	pos := make(map[string]int)
	seen := make(map[string]map[string]bool)
	legacy := make(map[string]map[string]string)

	for _, tok := range Tokens(detail) {
		m := gradePattern.FindStringSubmatchIndex(tok)
		if m == nil {
			continue
		}
		grade := strings.TrimSpace(tok[m[2]:m[3]])
		if !c.HasGrade(grade) {
			continue
		}

		i, ok := pos[grade]
		if !ok {
			subjects := c.Subjects(grade)
			present := make(map[string]bool, len(subjects))
			for _, s := range subjects {
				present[s] = false
			}
			out.Grades = append(out.Grades, GradePresence{
				Grade:    grade,
				Subjects: subjects,
				Present:  present,
			})
			i = len(out.Grades) - 1
			pos[grade] = i
			seen[grade] = make(map[string]bool)
		}
		gp := &out.Grades[i]
		gp.Tokens++

		if _, ok := legacy[grade]; !ok {
			legacy[grade] = legacyIndex(c, grade)
		}

		rest := strings.TrimSpace(tok[:m[0]] + tok[m[1]:])
		subject, name := resolve(rest, c.Subjects(grade), legacy[grade])
		if subject == "" {
			continue
		}

		key := subject + "\x00" + foldName(name)
		if seen[grade][key] {
			continue
		}
		seen[grade][key] = true
		gp.Present[subject] = true
		gp.Count++
	}
	return out
}

// legacyIndex maps normalized item names of grade to their subject. When two
// subjects share an item name the first in catalog order wins.
func legacyIndex(c *catalog.Catalog, grade string) map[string]string {
	idx := make(map[string]string)
	for _, it := range c.ItemsInGrade(grade) {
		k := foldName(it.Name)
		if k == "" {
			continue
		}
		if _, ok := idx[k]; !ok {
			idx[k] = it.Subject
		}
	}
	return idx
}

// foldName is the comparison key for item names. Names that Normalize
// empties, such as ones in a non-Latin script, fall back to their lowercased
// text so they stay distinct.
func foldName(name string) string {
	if k := Normalize(name); k != "" {
		return k
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// lookupLegacy resolves a legacy item name to its subject.
func lookupLegacy(legacy map[string]string, name string) (string, bool) {
	k := foldName(name)
	if k == "" {
		return "", false
	}
	s, ok := legacy[k]
	return s, ok
}

// resolve finds the subject for the text of a token after its grade bracket.
// It returns the subject and the item name, or an empty subject.
//
// Known subjects are matched literally first, longest wins, so subjects that
// themselves contain parentheses resolve.
func resolve(rest string, subjects []string, legacy map[string]string) (string, string) {
	var best string
	var bestLen int
	for _, s := range subjects {
		prefix := "(" + strings.TrimSpace(s) + ")"
		if len(prefix) <= 2 || len(prefix) <= bestLen || len(rest) < len(prefix) {
			continue
		}
		if strings.EqualFold(rest[:len(prefix)], prefix) {
			best, bestLen = s, len(prefix)
		}
	}
	if bestLen > 0 {
		if name := strings.TrimSpace(rest[bestLen:]); name != "" {
			return best, name
		}
	}

	if sm := subjectPattern.FindStringSubmatchIndex(rest); sm != nil {
		candidate := strings.TrimSpace(rest[sm[2]:sm[3]])
		name := strings.TrimSpace(rest[sm[1]:])
		for _, s := range subjects {
			if strings.EqualFold(strings.TrimSpace(s), candidate) {
				return s, name
			}
		}
		// Unknown subject: the parentheses may be part of a legacy item name.
		if s, ok := lookupLegacy(legacy, rest); ok {
			return s, rest
		}
		stripped := strings.TrimSpace(rest[:sm[0]] + rest[sm[1]:])
		if s, ok := lookupLegacy(legacy, stripped); ok {
			return s, stripped
		}
		return "", ""
	}

	if s, ok := lookupLegacy(legacy, rest); ok {
		return s, rest
	}
	return "", ""
}
