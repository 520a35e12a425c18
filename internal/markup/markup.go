// Package markup applies a text transformation to the text content of an
// HTML or XML fragment while leaving tags and attributes alone.
//
// Documents are streamed through the x/net/html tokenizer and everything
// but changed text is copied through byte for byte. Only text a
// transformation actually changes is re-encoded.
package markup

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// ErrSelector is returned for a selector outside the supported grammar.
var ErrSelector = errors.New("markup: invalid selector")

var selectorRe = regexp.MustCompile(`^(?:([A-Za-z][\w-]*)?(?:\.([\w-]+))?|#([\w-]+))$`)

// element is an open tag on the tokenizer stack.
type element struct {
	name   string
	attrs  map[string]string
	inside bool // element or an ancestor matches the selector
}

type matcher func(*element) bool

// compile accepts "", ":root", "tag", ".class", "#id" and "tag.class".
// A nil matcher selects the whole fragment.
func compile(selector string) (matcher, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || selector == ":root" {
		return nil, nil
	}
	m := selectorRe.FindStringSubmatch(selector)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrSelector, selector)
	}
	tag, class, id := strings.ToLower(m[1]), m[2], m[3]
	if id != "" {
		return func(e *element) bool { return e.attrs["id"] == id }, nil
	}
	return func(e *element) bool {
		if tag != "" && e.name != tag {
			return false
		}
		return class == "" || slices.Contains(strings.Fields(e.attrs["class"]), class)
	}, nil
}

// ValidateSelector reports whether selector is in the supported grammar.
func ValidateSelector(selector string) error {
	_, err := compile(selector)
	return err
}

// skipped elements hold raw text that is not prose.
var skipped = map[string]bool{
	"script": true, "style": true, "iframe": true, "noembed": true,
	"noframes": true, "noscript": true, "plaintext": true, "xmp": true,
}

// preserved elements keep their whitespace when reformatting.
var preserved = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// stack tracks open elements. Unclosed tags are popped when an enclosing
// end tag arrives; stray end tags are ignored.
type stack []*element

func (s stack) top() *element {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s stack) pop(name string) stack {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].name == name {
			return s[:i]
		}
	}
	return s
}

func (s stack) within(names map[string]bool) bool {
	for _, e := range s {
		if names[e.name] {
			return true
		}
	}
	return false
}

// opens reports whether a start tag token pushes an element.
func opens(tt html.TokenType, name string) bool {
	return tt == html.StartTagToken && !voidElements[name]
}

func tag(z *html.Tokenizer) *element {
	name, more := z.TagName()
	e := &element{name: string(name), attrs: map[string]string{}}
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		e.attrs[string(key)] = string(val)
	}
	return e
}

func next(z *html.Tokenizer) (html.TokenType, error) {
	tt := z.Next()
	if tt == html.ErrorToken {
		if err := z.Err(); !errors.Is(err, io.EOF) {
			return tt, fmt.Errorf("markup: tokenize: %w", err)
		}
	}
	return tt, nil
}

// Clean applies fn to every text run that contains more than whitespace
// and lies inside an element matched by selector. Everything else, and any
// text fn returns unchanged, is copied through verbatim. Script and style
// contents are skipped.
func Clean(doc, selector string, fn func(string) string) (string, error) {
	match, err := compile(selector)
	if err != nil {
		return "", err
	}

	var (
		b    strings.Builder
		open stack
		z    = html.NewTokenizer(strings.NewReader(doc))
	)
	for {
		tt, err := next(z)
		if err != nil {
			return "", err
		}
		if tt == html.ErrorToken {
			return b.String(), nil
		}
		// Raw must be copied before TagName, which lower-cases in place.
		raw := z.Raw()
		switch tt {
		case html.TextToken:
			inside := match == nil
			if top := open.top(); top != nil {
				inside = inside || top.inside
			}
			if !inside || open.within(skipped) {
				b.Write(raw)
				continue
			}
			text := html.UnescapeString(string(raw))
			if strings.TrimSpace(text) == "" {
				b.Write(raw)
				continue
			}
			if out := fn(text); out != text {
				b.WriteString(textEscaper.Replace(out))
			} else {
				b.Write(raw)
			}
		case html.StartTagToken:
			b.Write(raw)
			e := tag(z)
			if !opens(tt, e.name) {
				continue
			}
			e.inside = match == nil || (open.top() != nil && open.top().inside) || match(e)
			open = append(open, e)
		case html.EndTagToken:
			b.Write(raw)
			name, _ := z.TagName()
			open = open.pop(string(name))
		default:
			b.Write(raw)
		}
	}
}

// Reformat pretty-prints doc: every tag, comment and non-blank text run on
// its own line, indented by indent once per level of nesting. Text is
// trimmed but otherwise kept as written; the contents of pre, textarea,
// script and style are copied verbatim.
func Reformat(doc, indent string) (string, error) {
	var (
		b    strings.Builder
		open stack
		z    = html.NewTokenizer(strings.NewReader(doc))
	)
	line := func(s string) {
		b.WriteString(strings.Repeat(indent, len(open)))
		b.WriteString(s)
		b.WriteByte('\n')
	}
	for {
		tt, err := next(z)
		if err != nil {
			return "", err
		}
		if tt == html.ErrorToken {
			return b.String(), nil
		}
		raw := string(z.Raw())
		verbatim := open.within(preserved)
		switch tt {
		case html.TextToken:
			if verbatim {
				b.WriteString(raw)
			} else if text := strings.TrimSpace(raw); text != "" {
				line(text)
			}
		case html.StartTagToken:
			e := tag(z)
			switch {
			case verbatim:
				b.WriteString(raw)
			case preserved[e.name]:
				b.WriteString(strings.Repeat(indent, len(open)))
				b.WriteString(raw)
			default:
				line(raw)
			}
			if opens(tt, e.name) {
				open = append(open, e)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			open = open.pop(string(name))
			switch {
			case !verbatim:
				line(raw)
			case open.within(preserved):
				b.WriteString(raw)
			default:
				b.WriteString(raw)
				b.WriteByte('\n')
			}
		default:
			if verbatim {
				b.WriteString(raw)
			} else {
				line(raw)
			}
		}
	}
}
