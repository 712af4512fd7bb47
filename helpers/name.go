// Package helpers centralizes the small text-normalization routines shared
// across format parsers and the OpenAlex builder: author name inversion and
// splitting, and Unicode text normalization.
package helpers

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// parsedName is the decomposed form of a personal name, adapted from the
// crosswalk tool's contributor-name parser and trimmed to the pieces this
// toolkit actually needs (author strings for simple_id/simple_label, and
// OpenAlex's "First Last" display names).
type parsedName struct {
	Given  string
	Middle string
	Family string
	Suffix string
}

var (
	// suffixes that appear after a name.
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "V", "PhD", "Ph.D.", "MD", "M.D."}

	// nobiliary particles that precede a family name.
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "mac", "mc"}

	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, p := range prefixes {
		if lower == p {
			return true
		}
	}
	return false
}

// parseName parses a name string in either "Last, First Middle" or
// "First Middle Last" form into its components.
func parseName(name string) *parsedName {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	result := &parsedName{}

	if matches := invertedNameRegex.FindStringSubmatch(name); matches != nil {
		result.Family = strings.TrimSpace(matches[1])
		rest := strings.TrimSpace(matches[2])
		rest, result.Suffix = extractSuffix(rest)
		parts := strings.Fields(rest)
		if len(parts) > 0 {
			result.Given = parts[0]
		}
		if len(parts) > 1 {
			result.Middle = strings.Join(parts[1:], " ")
		}
		return result
	}

	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		result.Family = parts[0]
		return result
	}

	familyStart := len(parts) - 1
	prefix := ""
	if familyStart > 0 && isPrefix(parts[familyStart-1]) {
		prefix = parts[familyStart-1]
		familyStart--
	}
	if prefix != "" {
		result.Family = prefix + " " + parts[len(parts)-1]
	} else {
		result.Family = parts[familyStart]
	}
	result.Given = parts[0]
	if familyStart > 1 {
		result.Middle = strings.Join(parts[1:familyStart], " ")
	}
	return result
}

func (p *parsedName) inverted() string {
	given := strings.TrimSpace(p.Given + " " + p.Middle)
	name := p.Family
	if given != "" {
		name += ", " + given
	}
	if p.Suffix != "" {
		name += " " + p.Suffix
	}
	return name
}

// NormalizeName rewrites a name into "Lastname, First Middle Suffix" form,
// which is the form every format's simple_id/simple_label derivation
// expects for first-author-surname extraction. Names already in that form
// are cleaned up (whitespace collapsed) and left inverted; direct-order
// names are inverted.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = whitespaceRegex.ReplaceAllString(name, " ")
	parsed := parseName(name)
	if parsed == nil {
		return name
	}
	return parsed.inverted()
}

// InvertDisplayName converts a "First Middle Last" display name (as used by
// OpenAlex's authorships[].author.display_name) into "Last, First Middle"
// form, mirroring the original bibx builder's _invert_name.
func InvertDisplayName(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return name
	}
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	if first == "" {
		return last
	}
	return last + ", " + first
}

// SplitNames splits a string containing multiple names on the separator
// that format uses for author lists ("; " for RIS/CSV/BibTeX fields, " and "
// for BibTeX's `author` tag).
func SplitNames(names, separator string) []string {
	if names == "" {
		return nil
	}
	parts := strings.Split(names, separator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// NormalizeText applies Unicode NFC normalization to free-text bibliographic
// fields (titles, journal names) pulled from heterogeneous sources, so that
// visually identical strings encoded with different combining-character
// sequences compare equal. The OpenAlex builder applies it to titles and
// journal names; identifiers are never derived from these fields.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}
