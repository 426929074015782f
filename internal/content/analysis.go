// Package content measures the editor's constrained markup: headings h1-h3,
// strong/b emphasis and whitespace-separated words. The editor uses the same
// rules, so a score can be reproduced from the raw content string alone.
package content

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Analysis is the measured shape of one content string.
type Analysis struct {
	Text        string
	Words       []string
	H1Count     int
	H2Count     int
	H3Count     int
	StrongCount int
	FirstH1     string
}

// WordCount is the number of whitespace-separated tokens of the plain text.
func (a Analysis) WordCount() int {
	return len(a.Words)
}

// Intro joins the first n words of the text.
func (a Analysis) Intro(n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(a.Words) {
		n = len(a.Words)
	}
	return strings.Join(a.Words[:n], " ")
}

// Analyze parses raw editor content once; words and tag counts come from the
// same parse tree.
func Analyze(raw string) Analysis {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Analysis{}
	}

	text := plainText(doc)
	return Analysis{
		Text:        text,
		Words:       strings.Fields(text),
		H1Count:     doc.Find("h1").Length(),
		H2Count:     doc.Find("h2").Length(),
		H3Count:     doc.Find("h3").Length(),
		StrongCount: doc.Find("strong, b").Length(),
		FirstH1:     strings.TrimSpace(doc.Find("h1").First().Text()),
	}
}

// PlainText returns the visible text of raw with a space between text nodes,
// so adjacent blocks never merge into a single word.
func PlainText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	return plainText(doc)
}

func plainText(doc *goquery.Document) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			return
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}

// ContainsFold reports a case-insensitive substring match.
func ContainsFold(haystack, needle string) bool {
	return IndexFold(haystack, needle) >= 0
}

// IndexFold returns the byte offset of the first case-insensitive match, or -1.
func IndexFold(haystack, needle string) int {
	if needle == "" {
		return -1
	}
	return strings.Index(strings.ToLower(haystack), strings.ToLower(needle))
}

// CountWholeWord counts case-insensitive occurrences of keyword that are not
// glued to a letter, digit or underscore on either side.
func CountWholeWord(text, keyword string) int {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0
	}

	expr, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(keyword))
	if err != nil {
		return 0
	}

	count := 0
	for start := 0; start < len(text); {
		loc := expr.FindStringIndex(text[start:])
		if loc == nil {
			break
		}
		lo, hi := start+loc[0], start+loc[1]
		if glued(text, lo, hi) {
			// a rejected match may hide a valid one starting inside it
			_, size := utf8.DecodeRuneInString(text[lo:])
			start = lo + size
			continue
		}
		count++
		start = hi
	}
	return count
}

func glued(text string, lo, hi int) bool {
	if lo > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:lo])
		if isWordRune(prev) {
			return true
		}
	}
	if hi < len(text) {
		next, _ := utf8.DecodeRuneInString(text[hi:])
		if isWordRune(next) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
