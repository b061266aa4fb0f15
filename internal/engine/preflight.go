package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/configurator/internal/document"
)

// Issue names an identifier that occurs more than once in a section.
type Issue struct {
	Section    document.Section `json:"section"`
	Identifier string           `json:"identifier"`
}

// Preflight reports every repeated identifier in every array section of
// doc, in section order and then in order of the second occurrence. Each
// repeated identifier is reported once. Category identifiers are collected
// over the whole nested tree.
//
// Identifiers are compared after trimming and NFC normalization, so
// " default" and "default" collide. Empty identifiers are left to schema
// validation. Preflight never touches the network.
func Preflight(doc *document.Document) []Issue {
	var issues []Issue
	for _, section := range document.Sections {
		if section.IsSingleton() {
			continue
		}
		seen := make(map[string]int)
		for _, identifier := range doc.Identifiers(section) {
			key := normalizeIdentifier(identifier)
			if key == "" {
				continue
			}
			seen[key]++
			if seen[key] == 2 {
				issues = append(issues, Issue{Section: section, Identifier: key})
			}
		}
	}
	return issues
}

// CheckDuplicates is the yes/no form of Preflight. It returns a
// *DuplicateIdentifierError listing every issue, or nil.
func CheckDuplicates(doc *document.Document) error {
	issues := Preflight(doc)
	if len(issues) == 0 {
		return nil
	}
	return &DuplicateIdentifierError{Issues: issues}
}

func normalizeIdentifier(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
