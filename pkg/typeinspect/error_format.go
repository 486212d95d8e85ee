package typeinspect

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	classNameRe = regexp.MustCompile(`class not found: (\S+)`)
	noTypesRe   = regexp.MustCompile(`neither for (\S+), nor for (\S+)`)
)

// FormatQueryErrors turns the errors and warnings of a report into a
// user-facing message. It returns "" when every query succeeded cleanly.
func FormatQueryErrors(r *Report) string {
	var b strings.Builder
	for i, res := range r.Results {
		problems := res.Warnings
		if res.Error != "" {
			problems = append([]string{res.Error}, problems...)
		}
		for _, p := range problems {
			if b.Len() == 0 {
				b.WriteString("Some queries need attention.\n")
			}
			msg, hint := classifyAndHint(p)
			fmt.Fprintf(&b, "- %s\n", msg)
			fmt.Fprintf(&b, "  Location: queries[%d] (%s)\n", i, res.Query)
			if hint != "" {
				fmt.Fprintf(&b, "  How to fix: %s\n", hint)
			}
			fmt.Fprintf(&b, "  Details: %s\n", strings.TrimSpace(p))
		}
	}
	return b.String()
}

func classifyAndHint(s string) (msg, hint string) {
	if m := classNameRe.FindStringSubmatch(s); len(m) == 2 {
		msg = fmt.Sprintf("Class %s is not part of the universe; it was treated as java.lang.Object or as a leaf class.", m[1])
		hint = "Add the class to the universe file or check the spelling, including the package."
		return
	}
	if m := noTypesRe.FindStringSubmatch(s); len(m) == 3 {
		msg = fmt.Sprintf("Neither %s nor %s has an instantiable inheritor.", m[1], m[2])
		hint = "Load at least one public, non-abstract implementation or pick a wider default type."
		return
	}
	if strings.Contains(s, "invalid type name") {
		msg = "A type name could not be parsed."
		hint = `Use source-style names such as "int", "java.util.List" or "java.lang.String[][]".`
		return
	}
	return "Query error.", ""
}
