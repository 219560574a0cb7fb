package places

import (
	"regexp"
	"strings"

	"github.com/whensmy/whensmy/pkg/util"
)

type normaliseRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Road-type words abbreviated the way TfL's own stop data abbreviates them,
// plus filler words that carry no matching value.
var stopNameRules = []normaliseRule{
	{regexp.MustCompile(`\bSQUARE\b`), "SQ"},
	{regexp.MustCompile(`\bAVENUE\b`), "AVE"},
	{regexp.MustCompile(`\bSTREET\b`), "ST"},
	{regexp.MustCompile(`\bROAD\b`), "RD"},
	{regexp.MustCompile(`\bSTATION\b`), "STN"},
	{regexp.MustCompile(`\bPUBLIC HOUSE\b`), "PUB"},
	{regexp.MustCompile(`\bTHE\b`), ""},
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
	multipleSpaces  = regexp.MustCompile(` +`)
)

// CleanupName removes every regex in undesirables from the name, collapses
// the whitespace left behind and re-capitalises the result.
func CleanupName(name string, undesirables []string) string {
	for _, undesirable := range undesirables {
		re := regexp.MustCompile("(?i)" + undesirable)
		name = re.ReplaceAllString(name, "")
	}
	name = multipleSpaces.ReplaceAllString(strings.TrimSpace(name), " ")
	return util.Capwords(name)
}

// NormaliseStopName puts a bus stop name into comparison form: upper-case,
// road-type words abbreviated, filler words dropped, and everything that is
// not a letter or digit removed. Normalising an already-normalised name is
// a no-op.
func NormaliseStopName(name string) string {
	normalised := strings.ToUpper(name)
	for _, rule := range stopNameRules {
		normalised = rule.pattern.ReplaceAllString(normalised, rule.replacement)
	}
	return nonAlphanumeric.ReplaceAllString(normalised, "")
}
