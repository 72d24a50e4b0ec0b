package tasks

import (
	"regexp"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	maxTagLength      = 100
	maxUsernameLength = 150
)

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)
)

// ExtractHashtags returns distinct #tokens in order of first appearance.
func ExtractHashtags(caption string) []string {
	return extract(hashtagPattern, caption, maxTagLength)
}

// ExtractMentions returns distinct @tokens in order of first appearance.
func ExtractMentions(caption string) []string {
	return extract(mentionPattern, caption, maxUsernameLength)
}

func extract(re *regexp.Regexp, caption string, maxLen int) []string {
	matches := re.FindAllStringSubmatch(caption, -1)
	tokens := lo.Map(matches, func(m []string, _ int) string { return m[1] })
	tokens = lo.Reject(tokens, func(t string, _ int) bool { return utf8.RuneCountInString(t) > maxLen })
	return lo.Uniq(tokens)
}
