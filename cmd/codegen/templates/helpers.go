package templates

import "strconv"

func viewName(typeName string) string {
	return typeName + "View"
}

func quote(s string) string {
	return strconv.Quote(s)
}
