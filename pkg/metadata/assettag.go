package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TagPrefix starts every generated asset tag, e.g. AST-00042.
const TagPrefix string = "AST"

const tagSuffixWidth = 5

var assetTagPattern = regexp.MustCompile(`^AST-\d{5}$`)

// NextAssetTag returns the tag following lastTag. The caller supplies the
// highest allocated tag (empty when none exist yet). Suffixes are compared
// numerically, never as strings. Overflow past 99999 widens the suffix; the
// sequence has no defined behaviour beyond that point.
func NextAssetTag(lastTag string) string {
	next := 1
	if assetTagPattern.MatchString(lastTag) {
		n, _ := strconv.Atoi(strings.TrimPrefix(lastTag, TagPrefix+"-"))
		next = n + 1
	}
	return fmt.Sprintf("%s-%0*d", TagPrefix, tagSuffixWidth, next)
}

// IsAssetTag reports whether s matches the allocated tag format.
func IsAssetTag(s string) bool {
	return assetTagPattern.MatchString(s)
}

// NextCategoryCode derives an auto-generated category code from the number
// of existing categories.
func NextCategoryCode(existing int) string {
	return fmt.Sprintf("CAT%03d", existing+1)
}
