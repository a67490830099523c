package search

import (
	"strconv"
	"strings"
	"time"
)

// Query is the parsed form of a search input. Free text lands in Terms
// and Phrases; the rest are structured filters.
type Query struct {
	Terms   []string
	Phrases []string

	Tags       []string
	Domain     string
	Collection string

	Unread   *bool
	Favorite *bool
	Archived *bool

	// After and Before bound the bookmark creation date (After inclusive,
	// Before exclusive, both at midnight UTC).
	After  *time.Time
	Before *time.Time
}

// IsEmpty reports whether the query carries neither text nor filters.
func (q Query) IsEmpty() bool {
	return len(q.Terms) == 0 && len(q.Phrases) == 0 && len(q.Tags) == 0 &&
		q.Domain == "" && q.Collection == "" &&
		q.Unread == nil && q.Favorite == nil && q.Archived == nil &&
		q.After == nil && q.Before == nil
}

// Parse interprets the search mini-language:
//
//	go concurrency tag:reading domain:example.com "exact phrase"
//	unread:true favorite:true archived:false after:2024-01-01 before:2024-06-01
//
// Quoted sequences become phrases. Unknown prefixes are treated as plain
// text; malformed boolean or date values are silently dropped, a typo in
// a filter never fails the whole search.
func Parse(raw string) Query {
	var q Query

	for _, token := range tokenize(raw) {
		if token.quoted {
			if token.value != "" {
				q.Phrases = append(q.Phrases, token.value)
			}
			continue
		}

		key, value, ok := strings.Cut(token.value, ":")
		if !ok {
			q.Terms = append(q.Terms, token.value)
			continue
		}

		switch strings.ToLower(key) {
		case "tag":
			if value != "" {
				q.Tags = append(q.Tags, value)
			}
		case "domain":
			q.Domain = strings.ToLower(value)
		case "collection":
			q.Collection = value
		case "unread":
			q.Unread = parseBool(value)
		case "favorite":
			q.Favorite = parseBool(value)
		case "archived":
			q.Archived = parseBool(value)
		case "after":
			q.After = parseDate(value)
		case "before":
			q.Before = parseDate(value)
		default:
			// Not a filter; "go:generate" is a fine search term.
			q.Terms = append(q.Terms, token.value)
		}
	}

	return q
}

type token struct {
	value  string
	quoted bool
}

// tokenize splits on whitespace, keeping double-quoted runs together.
// Quotes may also appear after a filter colon (tag:"deep dive").
func tokenize(raw string) []token {
	var tokens []token
	var current strings.Builder
	inQuotes := false
	quoted := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, token{value: current.String(), quoted: quoted})
			current.Reset()
		}
		quoted = false
	}

	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			if inQuotes && current.Len() == 0 {
				quoted = true
			}
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func parseBool(s string) *bool {
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
