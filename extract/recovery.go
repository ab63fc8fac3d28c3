// Copyright 2025 Sellarium Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// RecoverJSON coerces raw model output into a parsed JSON value. The steps
// run in order, stopping at the first success:
//
//  1. strict parse of the (fence-stripped) text
//  2. strict parse of the substring between the first '{' and the last '}'
//  3. parse of that substring after a textual repair pass
//  4. parse of the entire raw text after the same repair pass
//
// A failure of all four steps returns ErrInvalidJSON, never a silent empty
// value: the distinction drives whether the cascade escalates to a stricter
// schema or gives up.
func RecoverJSON(raw string) (any, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidJSON)
	}

	if v, ok := tryParse(text); ok {
		return v, nil
	}

	sub, hasBounds := braceBounds(text)
	if hasBounds {
		if v, ok := tryParse(sub); ok {
			return v, nil
		}
		if v, ok := tryParse(RepairJSON(sub)); ok {
			return v, nil
		}
	}

	if v, ok := tryParse(RepairJSON(text)); ok {
		return v, nil
	}

	return nil, ErrInvalidJSON
}

func tryParse(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

// stripFences removes markdown code fences the model sometimes wraps its
// output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// braceBounds extracts the substring between the first '{' and the last '}'.
func braceBounds(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

var (
	smartQuoteReplacer = strings.NewReplacer(
		"\u201c", `"`, "\u201d", `"`, // curly double quotes
		"\u2018", "'", "\u2019", "'", // curly single quotes
	)

	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	// Trailing // comments; the [^:"] guard spares URLs and quoted text.
	lineCommentPattern   = regexp.MustCompile(`(?m)(^|[^:"\\])//[^\n"]*$`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	singleQuotedPattern  = regexp.MustCompile(`'((?:[^'\\\n]|\\.)*)'`)
	colonSpacePattern    = regexp.MustCompile(`:[ \t]{2,}`)
)

// RepairJSON applies a sequence of textual repairs to almost-JSON: smart
// quotes, comments, trailing commas, unquoted keys, single-quoted strings,
// and redundant whitespace after colons. The output is not guaranteed to
// parse; callers re-check.
func RepairJSON(s string) string {
	s = smartQuoteReplacer.Replace(s)
	s = blockCommentPattern.ReplaceAllString(s, "")
	s = lineCommentPattern.ReplaceAllString(s, "$1")
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2":`)
	s = singleQuotedPattern.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[1 : len(m)-1]
		inner = strings.ReplaceAll(inner, `\'`, "'")
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	})
	s = colonSpacePattern.ReplaceAllString(s, ": ")
	return s
}
