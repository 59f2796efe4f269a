package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TagError describes why one raw tag was rejected.
type TagError struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
}

// NormalizeTag lowercases (Turkish-aware, so YAĞLIBOYA and Yağlıboya
// normalize to the same tag), trims, and validates length and charset.
func NormalizeTag(raw string, cfg Config) (string, *TagError) {
	tag := strings.TrimSpace(strings.ToLowerSpecial(unicode.TurkishCase, raw))
	n := utf8.RuneCountInString(tag)
	if n < cfg.TagMinLen {
		return "", &TagError{Tag: raw, Reason: fmt.Sprintf("must be at least %d characters", cfg.TagMinLen)}
	}
	if n > cfg.TagMaxLen {
		return "", &TagError{Tag: raw, Reason: fmt.Sprintf("must be at most %d characters", cfg.TagMaxLen)}
	}
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			continue
		}
		return "", &TagError{Tag: raw, Reason: "may only contain letters, digits, spaces and hyphens"}
	}
	return tag, nil
}

// AssertTagCapacity enforces the per-listing tag ceiling. The count of tags
// the caller is trying to add is what matters, before any deduplication:
// attempting to add more than fit is an error even if some would collapse.
func AssertTagCapacity(existingCount, addingCount int, cfg Config) error {
	if existingCount+addingCount > cfg.MaxTagsPerListing {
		return newError(CodeTagLimit,
			fmt.Sprintf("a listing can have at most %d tags", cfg.MaxTagsPerListing)).
			withDetail("maxTags", cfg.MaxTagsPerListing).
			withDetail("existingCount", existingCount).
			withDetail("addingCount", addingCount)
	}
	return nil
}

// NormalizeTags validates and normalizes a batch of raw tags. Invalid tags
// are collected and reported together; duplicates after normalization are
// dropped silently.
func NormalizeTags(raw []string, cfg Config) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	normalized := make([]string, 0, len(raw))
	var tagErrors []TagError
	for _, r := range raw {
		tag, terr := NormalizeTag(r, cfg)
		if terr != nil {
			tagErrors = append(tagErrors, *terr)
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	if len(tagErrors) > 0 {
		return nil, newError(CodeValidation, "some tags are invalid").
			withDetail("tagErrors", tagErrors)
	}
	return normalized, nil
}
