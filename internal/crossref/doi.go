package crossref

import (
	"net/url"
	"regexp"
	"strings"
)

// DOIPattern matches a bare DOI: 10.<registrant>/<suffix>.
var DOIPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiPrefixes are stripped by NormalizeDOI, compared case-insensitively.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeDOI strips URL and "doi:" prefixes and surrounding whitespace.
// Case is preserved since Crossref echoes DOIs as registered.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			doi = strings.TrimSpace(doi[len(prefix):])
			break
		}
	}
	return doi
}

// EscapeDOI path-escapes each segment of a DOI while keeping its slashes,
// which Crossref expects literally in /works/{doi}.
func EscapeDOI(doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
