package embed

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Segment is one piece of a tokenized article body. Static markup passes
// through untouched; placeholder blocks become typed doctor_embed segments
// carrying the referenced identifiers.
type Segment struct {
	Type string   `json:"type"` // "html" or "doctor_embed"
	HTML string   `json:"html,omitempty"`
	Refs []string `json:"refs,omitempty"`
}

const (
	SegmentHTML        = "html"
	SegmentDoctorEmbed = "doctor_embed"

	embedClass    = "doctor-embed"
	embedDataAttr = "data-doctors"
	scaffoldAttr  = "data-editor-scaffold"
)

// Elements with no end tag, so subtree skipping doesn't lose its depth.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse tokenizes stored rich-text HTML into an ordered segment list.
// A placeholder is an element carrying the doctor-embed class and a
// data-doctors attribute listing UUIDs or slugs, comma separated. A block
// with the class but no identifier list is malformed and passes through as
// literal markup. Editor scaffolding subtrees are dropped entirely.
func Parse(content string) []Segment {
	z := html.NewTokenizer(strings.NewReader(content))

	var segments []Segment
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			segments = append(segments, Segment{Type: SegmentHTML, HTML: buf.String()})
			buf.Reset()
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		raw := string(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			buf.WriteString(raw)
			continue
		}

		tok := z.Token()
		if hasAttr(tok, scaffoldAttr) {
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				skipSubtree(z)
			}
			continue
		}

		if !hasClass(tok, embedClass) {
			buf.WriteString(raw)
			continue
		}

		refs := parseRefs(attrValue(tok, embedDataAttr))
		if len(refs) == 0 {
			// malformed placeholder: leave it as literal text
			buf.WriteString(raw)
			continue
		}

		flush()
		segments = append(segments, Segment{Type: SegmentDoctorEmbed, Refs: refs})
		if tt == html.StartTagToken && !voidElements[tok.Data] {
			skipSubtree(z)
		}
	}

	flush()
	return segments
}

// skipSubtree consumes tokens until the tag that just opened closes.
func skipSubtree(z *html.Tokenizer) {
	depth := 1
	for depth > 0 {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return
		case html.StartTagToken:
			tag, _ := z.TagName()
			if !voidElements[string(tag)] {
				depth++
			}
		case html.EndTagToken:
			depth--
		}
	}
}

// ClassifyRefs splits identifiers into UUIDs and slugs so the caller can
// batch its lookups, one query per kind.
func ClassifyRefs(refs []string) (uuids []string, slugs []string) {
	for _, ref := range refs {
		if _, err := uuid.Parse(ref); err == nil {
			uuids = append(uuids, ref)
		} else {
			slugs = append(slugs, ref)
		}
	}
	return uuids, slugs
}

func parseRefs(list string) []string {
	var refs []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

func hasClass(tok html.Token, class string) bool {
	for _, a := range tok.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func hasAttr(tok html.Token, key string) bool {
	for _, a := range tok.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attrValue(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
