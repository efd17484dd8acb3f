// Package completion suggests Playwright config files for the configFile
// setting while a settings document is being edited.
package completion

import (
	"context"
	"regexp"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// ConfigFilePattern matches the configFile entry on a settings line. Group 1
// is the quoted value.
var ConfigFilePattern = regexp.MustCompile(`"playwright-file-test-runner\.configFile"\s*:\s*"(.*?)"`)

// ItemDetail labels every suggestion.
const ItemDetail = "Playwright Config File"

// KindFile is the item kind for file suggestions.
const KindFile = "file"

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span on one or more lines.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Item is a single completion suggestion.
type Item struct {
	Label      string `json:"label"`
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
	InsertText string `json:"insertText"`
	Range      Range  `json:"range"`
}

// Request is the text of the line under the cursor and the cursor position.
type Request struct {
	Line       string
	LineNumber int
	Character  int
}

// ValueSpan locates the configFile value on line.
//
// Returns:
//   - start: UTF-16 offset of the first character inside the quotes
//   - length: UTF-16 length of the value
//   - ok: False when the line has no configFile entry
func ValueSpan(line string) (start, length int, ok bool) {
	m := ConfigFilePattern.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, 0, false
	}
	return utf16Len(line[:m[2]]), utf16Len(line[m[2]:m[3]]), true
}

// Complete returns suggestions when the cursor is inside the configFile value.
// A missing workspace root or a failed search yields no items.
func Complete(ctx context.Context, req Request, root string, finder Finder) []Item {
	start, length, ok := ValueSpan(req.Line)
	if !ok {
		return nil
	}
	if req.Character < start || req.Character > start+length {
		return nil
	}
	if root == "" {
		return nil
	}

	res := finder.FindConfigFiles(ctx, root)
	if res.Err != nil {
		log.Debug("Config file search failed", "root", root, "error", res.Err)
		return nil
	}

	span := Range{
		Start: Position{Line: req.LineNumber, Character: start},
		End:   Position{Line: req.LineNumber, Character: start + length},
	}
	items := make([]Item, 0, len(res.Files))
	for _, rel := range res.Files {
		items = append(items, Item{
			Label:      rel,
			Kind:       KindFile,
			Detail:     ItemDetail,
			InsertText: rel,
			Range:      span,
		})
	}
	return items
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
