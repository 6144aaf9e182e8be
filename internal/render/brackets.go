package render

import "strings"

// RemoveLinesWithBrackets drops every line that contains both '[' and ']'
// anywhere, in any order. This removes annotations such as "[Chorus]" and
// also any lyric line that happens to contain both characters.
func RemoveLinesWithBrackets(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, "[") && strings.Contains(line, "]") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
