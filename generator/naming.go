package generator

import (
	"strings"
	"unicode"
)

// acronyms stay upper-case in PascalCase and camelCase output.
var acronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"http": "HTTP",
	"api":  "API",
	"uuid": "UUID",
	"sql":  "SQL",
	"html": "HTML",
	"json": "JSON",
	"jwt":  "JWT",
	"db":   "DB",
	"ui":   "UI",
}

// words splits s on '_', '-', spaces and case boundaries.
// Examples: user_name → [user name], HTTPServer → [http server], authModule → [auth module]
func words(s string) []string {
	var out []string
	var cur []rune
	runes := []rune(s)

	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

func capitalize(w string) string {
	if a, ok := acronyms[w]; ok {
		return a
	}
	if w == "" {
		return ""
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// PascalCase converts to PascalCase. Examples: user_name → UserName, user-id → UserID
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// CamelCase converts to camelCase. Examples: user_name → userName, UserName → userName
func CamelCase(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(ws[0])
	for _, w := range ws[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// SnakeCase converts to snake_case. Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string {
	return strings.Join(words(s), "_")
}

// KebabCase converts to kebab-case. Examples: UserName → user-name, auth_module → auth-module
func KebabCase(s string) string {
	return strings.Join(words(s), "-")
}

// Pluralize converts a singular noun to plural form using common English rules.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)

	irregulars := map[string]string{
		"person": "people",
		"child":  "children",
		"man":    "men",
		"woman":  "women",
		"mouse":  "mice",
	}
	if plural, ok := irregulars[lower]; ok {
		if unicode.IsUpper(rune(word[0])) {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	}
	return word + "s"
}
