package arg

import "strings"

// HandleKeyword joins the positional arguments into one search keyword, so
// `mixsearch search anna smith` searches for "anna smith".
func HandleKeyword(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
