// internal/theme/parse.go
//
// Theme JSON decoding (gjson, so word order survives).

package theme

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes theme data of the form
//
//	[{"daily_theme": "Animals", "theme_reflection": "...",
//	  "daily_words": {"cat": "meows", "dog": "barks"}}]
//
// Word order follows the document, which encoding/json maps would lose.
// Blank words are skipped and a repeated word keeps its first hint.
func Parse(data []byte) ([]Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of themes", ErrMalformed)
	}

	var (
		out  []Theme
		perr error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			perr = fmt.Errorf("%w: theme #%d is not an object", ErrMalformed, len(out))
			return false
		}
		t := Theme{
			Name:       strings.TrimSpace(v.Get("daily_theme").String()),
			Reflection: strings.TrimSpace(v.Get("theme_reflection").String()),
		}
		if t.Name == "" {
			perr = fmt.Errorf("%w: theme #%d has no daily_theme", ErrMalformed, len(out))
			return false
		}
		words := v.Get("daily_words")
		if words.Exists() && !words.IsObject() {
			perr = fmt.Errorf("%w: theme %q daily_words must be an object", ErrMalformed, t.Name)
			return false
		}
		seen := make(map[string]struct{})
		words.ForEach(func(k, h gjson.Result) bool {
			w := strings.TrimSpace(k.String())
			if w == "" {
				return true
			}
			key := strings.ToLower(w)
			if _, dup := seen[key]; dup {
				return true
			}
			seen[key] = struct{}{}
			t.Words = append(t.Words, Word{Text: w, Hint: h.String()})
			return true
		})
		out = append(out, t)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return out, nil
}
