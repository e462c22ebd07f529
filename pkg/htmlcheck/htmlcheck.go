// Package htmlcheck validates generated HTML sections structurally:
// correct container element, required marker attributes, and balanced
// tags. It is deliberately a pass/fail predicate with a reason string;
// a failing section is recorded, never rejected.
package htmlcheck

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Container requirements for a generated knowledge-unit section.
const (
	ContainerTag   = "section"
	ContainerClass = "knowledge-unit"
)

// voidTags never take a closing tag and are excluded from the balance
// check.
var voidTags = map[string]bool{
	"img": true, "br": true, "hr": true, "input": true, "meta": true,
	"link": true, "area": true, "base": true, "col": true, "embed": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Validate checks one HTML section. It returns (true, "") when the
// section is well formed, otherwise (false, reason).
//
// Checks performed:
//   - the root element is <section>
//   - the root carries the knowledge-unit marker class and an id
//   - every opened tag has a matching close (simple stack walk)
func Validate(section string) (bool, string) {
	tokenizer := html.NewTokenizer(strings.NewReader(section))

	var (
		stack       []string
		unclosed    []string
		rootTag     string
		rootID      string
		rootClasses []string
	)

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if err := tokenizer.Err(); err != io.EOF {
				return false, fmt.Sprintf("HTML parsing error: %v", err)
			}
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if rootTag == "" {
				rootTag = token.Data
				for _, attr := range token.Attr {
					switch attr.Key {
					case "id":
						rootID = attr.Val
					case "class":
						rootClasses = strings.Fields(attr.Val)
					}
				}
			}
			if tt == html.StartTagToken && !voidTags[token.Data] {
				stack = append(stack, token.Data)
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if len(stack) > 0 && stack[len(stack)-1] == tag {
				stack = stack[:len(stack)-1]
			} else if !voidTags[tag] {
				unclosed = append(unclosed, tag)
			}
		}
	}
	unclosed = append(unclosed, stack...)

	if rootTag == "" {
		return false, "No root element found"
	}
	if rootTag != ContainerTag {
		return false, fmt.Sprintf("Root element must be <%s>, found <%s>", ContainerTag, rootTag)
	}
	if !containsClass(rootClasses, ContainerClass) {
		return false, fmt.Sprintf("Root <%s> must have class %q", ContainerTag, ContainerClass)
	}
	if rootID == "" {
		return false, fmt.Sprintf("Root <%s> must have an id attribute", ContainerTag)
	}
	if len(unclosed) > 0 {
		return false, "Unclosed tags: " + strings.Join(unclosed, ", ")
	}

	return true, ""
}

func containsClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}
