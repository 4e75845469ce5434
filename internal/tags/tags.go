// Package tags extracts tag lists and inline hashtags from note content.
package tags

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#([\w-]+)`)

// Extract parses the comma-separated rawTags input and scans body for
// inline hashtags. It returns the normalized tag list and the hashtag set:
// hashtags are the union of body hashtags and any tag entries written with
// a leading '#' (the '#' is stripped); plain tag entries are mirrored into
// the hashtag set as well. Order is first-appearance, duplicates dropped,
// case preserved.
func Extract(body, rawTags string) (tagList, hashtags []string) {
	tagSeen := make(map[string]struct{})
	hashSeen := make(map[string]struct{})

	addTag := func(t string) {
		if t == "" {
			return
		}
		if _, ok := tagSeen[t]; ok {
			return
		}
		tagSeen[t] = struct{}{}
		tagList = append(tagList, t)
	}
	addHash := func(h string) {
		if h == "" {
			return
		}
		if _, ok := hashSeen[h]; ok {
			return
		}
		hashSeen[h] = struct{}{}
		hashtags = append(hashtags, h)
	}

	for _, m := range hashtagRe.FindAllStringSubmatch(body, -1) {
		addHash(m[1])
	}

	for _, part := range strings.Split(rawTags, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if stripped, ok := strings.CutPrefix(entry, "#"); ok {
			addHash(stripped)
			continue
		}
		addTag(entry)
		addHash(entry)
	}

	return tagList, hashtags
}
