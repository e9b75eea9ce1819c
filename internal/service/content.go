package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"unpolished/internal/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	wordsPerMinute = 200
	maxSlugBase    = 80
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderMarkdown converts markdown to HTML. Raw HTML in the source is
// escaped.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Slugify lowercases title, strips accents and joins the remaining
// alphanumeric runs with dashes.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugBase {
		slug = strings.TrimRight(slug[:maxSlugBase], "-")
	}
	if slug == "" {
		slug = "blog"
	}
	return slug
}

// NewSlug appends the creation time in unix milliseconds to the slugified
// title.
func NewSlug(title string, now time.Time) string {
	return Slugify(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// ReadingTime estimates minutes to read at 200 words per minute, never less
// than one.
func ReadingTime(format, body string) int {
	words := 0
	if format == models.ContentFormatBlocks {
		words = countBlockWords(body)
	} else {
		words = len(strings.Fields(body))
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// countBlockWords counts words in every string value of a block document.
func countBlockWords(doc string) int {
	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return len(strings.Fields(doc))
	}
	count := 0
	var walk func(interface{})
	walk = func(n interface{}) {
		switch x := n.(type) {
		case string:
			count += len(strings.Fields(x))
		case []interface{}:
			for _, c := range x {
				walk(c)
			}
		case map[string]interface{}:
			for k, c := range x {
				if k == "type" || k == "id" {
					continue
				}
				walk(c)
			}
		}
	}
	walk(v)
	return count
}
