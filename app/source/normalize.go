package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// normalizeText brings feed text into NFC form and collapses
// whitespace runs, so identical entries hash identically regardless
// of the upstream encoding.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// fallbackGUID derives a deterministic identifier for entries whose
// feed provides no id of its own.
func fallbackGUID(link, title string) string {
	content := fmt.Sprintf("%s|%s", normalizeText(link), normalizeText(title))

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// stripHTML reduces markup-bearing feed fields to their text content
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return normalizeText(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return normalizeText(s)
	}

	return normalizeText(doc.Text())
}
