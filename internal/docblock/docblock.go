// Package docblock parses PHP documentation comments into annotations.
package docblock

import (
	"regexp"
	"strings"

	"github.com/thinkbox/apigen/internal/model"
)

var (
	tagRe         = regexp.MustCompile(`^@([A-Za-z_][\w\-\\]*)(?:\s+(.*))?$`)
	linePrefixRe  = regexp.MustCompile(`^\s*\*? ?`)
	inlineCloseRe = regexp.MustCompile(`\s*\*+/\s*$`)
)

// IsDocComment reports whether text is a /** ... */ comment.
func IsDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") && strings.HasSuffix(text, "*/")
}

// Parse returns the annotations of a doc comment. The first paragraph is
// stored under model.ShortDescription, the remaining free text before the
// first tag under model.LongDescription. Each tag appends its value to the
// list for its name; continuation lines are joined with a newline.
func Parse(text string) model.Annotations {
	annotations := model.Annotations{}
	if !IsDocComment(text) {
		return annotations
	}

	body := strings.TrimPrefix(text, "/**")
	body = inlineCloseRe.ReplaceAllString(body, "")

	var (
		description []string
		tagName     string
		tagValue    []string
	)

	flush := func() {
		if tagName == "" {
			return
		}
		value := strings.TrimSpace(strings.Join(tagValue, "\n"))
		annotations[tagName] = append(annotations[tagName], value)
		tagName, tagValue = "", nil
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimRight(linePrefixRe.ReplaceAllString(raw, ""), " \t\r")
		trimmed := strings.TrimSpace(line)

		if m := tagRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			tagName = m[1]
			tagValue = []string{m[2]}
			continue
		}

		if tagName != "" {
			if trimmed != "" {
				tagValue = append(tagValue, trimmed)
			}
			continue
		}
		description = append(description, line)
	}
	flush()

	short, long := splitDescription(description)
	if short != "" {
		annotations[model.ShortDescription] = []string{short}
	}
	if long != "" {
		annotations[model.LongDescription] = []string{long}
	}

	return annotations
}

// Text returns the single string value of a description marker, or "".
func Text(a model.Annotations, marker string) string {
	v, _ := a.First(marker)
	return v
}

// splitDescription splits free text on the first blank line.
func splitDescription(lines []string) (short, long string) {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	end := len(lines)
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			end = i
			break
		}
	}

	shortLines := make([]string, 0, end)
	for _, l := range lines[:end] {
		shortLines = append(shortLines, strings.TrimSpace(l))
	}
	short = strings.Join(shortLines, " ")
	long = strings.TrimSpace(strings.Join(lines[end:], "\n"))
	return short, long
}
