package arch

import "strings"

// GenerateID builds a canonical id of the form "prefix-name", lowercasing
// name and replacing every character outside [a-z0-9] with '-'.
//
//	GenerateID("lambda", "Order_Handler") // "lambda-order-handler"
func GenerateID(prefix, name string) string {
	slug := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, strings.ToLower(name))
	return prefix + "-" + slug
}
