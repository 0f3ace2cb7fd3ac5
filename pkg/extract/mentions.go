package extract

import (
	"regexp"
	"strings"

	"github.com/soundprediction/relato/pkg/types"
)

// namePattern matches one or two capitalized words, the shape of a person
// name in running text. The relation words around it match case-insensitively
// but the name itself must be capitalized.
const namePattern = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`

// mentionPatterns are the pattern families that signal a person reference:
// explicit relation words adjacent to a name, "X and Y are married" forms, and
// verb-object forms like "met Sarah".
var mentionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:married to|husband|wife|spouse|partner)\s+` + namePattern),
	regexp.MustCompile(`\b(?i:friend|brother|sister|sibling|cousin|uncle|aunt|nephew|niece)\s+` + namePattern),
	regexp.MustCompile(`\b(?i:works with|colleague|boss|manager)\s+` + namePattern),
	regexp.MustCompile(`\b(?i:son|daughter|child|parent|father|mother|dad|mom)\s+` + namePattern),
	regexp.MustCompile(namePattern + `\s+(?i:is|are)\s+(?i:my|his|her|their)\s+(?i:friend|brother|sister|spouse|husband|wife)`),
	regexp.MustCompile(`\b(?i:with)\s+` + namePattern),
	regexp.MustCompile(`\b(?i:and)\s+` + namePattern + `\s+(?i:are)\s+(?i:married|dating|friends|siblings)`),
	regexp.MustCompile(`\b(?i:met|called|visited)\s+` + namePattern),
}

// nonNameWords are words that disqualify a candidate as a person name.
var nonNameWords = map[string]bool{
	"the": true, "and": true, "or": true, "with": true,
	"in": true, "at": true, "on": true,
}

// relationshipClass pairs a relationship type with the keywords that imply
// it. Order is the classification priority.
type relationshipClass struct {
	rel      types.RelationshipType
	keywords []string
}

var relationshipClasses = []relationshipClass{
	{types.RelSpouse, []string{"married", "husband", "wife", "spouse"}},
	{types.RelSibling, []string{"brother", "sister", "sibling"}},
	{types.RelParent, []string{"parent", "father", "mother", "dad", "mom"}},
	{types.RelChild, []string{"son", "daughter", "child"}},
	{types.RelFamily, []string{"cousin", "uncle", "aunt", "nephew", "niece"}},
	{types.RelColleague, []string{"colleague", "coworker", "works with"}},
	{types.RelProfessional, []string{"boss", "manager", "supervisor"}},
	{types.RelFriend, []string{"friend", "buddy"}},
	{types.RelRomantic, []string{"dating", "girlfriend", "boyfriend"}},
}

// proximityWindow is how far (in bytes) around a candidate name keywords are
// preferred over keywords anywhere in the text.
const proximityWindow = 40

// HeuristicMentions implements MentionExtractor with regex pattern families
// and keyword classification.
type HeuristicMentions struct{}

// NewHeuristicMentions returns the keyword-based mention extractor.
func NewHeuristicMentions() *HeuristicMentions {
	return &HeuristicMentions{}
}

// ExtractMentions returns candidate person mentions in text, excluding the
// owner and common non-name phrases. Each mention carries the relationship
// classified from keywords near the name, falling back to keywords anywhere
// in the text.
func (h *HeuristicMentions) ExtractMentions(text, owner string) []Mention {
	seen := make(map[string]bool)
	mentions := make([]Mention, 0)

	for _, pattern := range mentionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(match[1])
			if !plausibleName(name, owner) {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			mentions = append(mentions, Mention{
				Name:         name,
				Relationship: classifyNear(text, name),
			})
		}
	}

	return mentions
}

func plausibleName(name, owner string) bool {
	if name == "" || strings.EqualFold(name, owner) {
		return false
	}
	words := strings.Fields(name)
	if len(words) > 3 {
		return false
	}
	for _, word := range words {
		if nonNameWords[strings.ToLower(word)] {
			return false
		}
	}
	return true
}

// ClassifyRelationship classifies a relationship from keywords anywhere in
// the text, in priority order. Defaults to RELATED.
func ClassifyRelationship(text string) types.RelationshipType {
	lower := strings.ToLower(text)
	for _, class := range relationshipClasses {
		for _, keyword := range class.keywords {
			if strings.Contains(lower, keyword) {
				return class.rel
			}
		}
	}
	return types.RelRelated
}

// classifyNear prefers keywords within proximityWindow of the name before
// falling back to the whole text.
func classifyNear(text, name string) types.RelationshipType {
	idx := strings.Index(text, name)
	if idx >= 0 {
		start := idx - proximityWindow
		if start < 0 {
			start = 0
		}
		end := idx + len(name) + proximityWindow
		if end > len(text) {
			end = len(text)
		}
		window := strings.ToLower(text[start:end])
		for _, class := range relationshipClasses {
			for _, keyword := range class.keywords {
				if strings.Contains(window, keyword) {
					return class.rel
				}
			}
		}
	}
	return ClassifyRelationship(text)
}
