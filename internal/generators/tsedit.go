package generators

import (
	"errors"
	"fmt"
	"strings"
)

// walkCode calls visit for every byte of src from start that lies outside
// comments. A string or template literal is reported once, at its opening
// quote, with end at its closing quote; any other byte has end == i.
// Walking stops when visit returns false.
func walkCode(src string, start int, visit func(i, end int) bool) error {
	for i := start; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return nil
			}
			i += nl - 1
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return fmt.Errorf("unterminated comment at offset %d", i)
			}
			i += end + 3
		case c == '\'' || c == '"' || c == '`':
			end, err := stringEnd(src, i)
			if err != nil {
				return err
			}
			if !visit(i, end) {
				return nil
			}
			i = end
		default:
			if !visit(i, i) {
				return nil
			}
		}
	}
	return nil
}

// stringEnd returns the offset of the quote closing the literal opened at open.
func stringEnd(src string, open int) (int, error) {
	quote := src[open]
	for j := open + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j, nil
		case '\n':
			if quote != '`' {
				return 0, fmt.Errorf("unterminated string at offset %d", open)
			}
		}
	}
	return 0, fmt.Errorf("unterminated string at offset %d", open)
}

// matchingClose returns the offset of the bracket closing the one at open.
func matchingClose(src string, open int) (int, error) {
	var stack []byte
	at := -1
	var unbalanced error

	err := walkCode(src, open, func(i, end int) bool {
		switch c := src[i]; c {
		case '(':
			stack = append(stack, ')')
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				unbalanced = fmt.Errorf("unbalanced %q at offset %d", c, i)
				return false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				at = i
				return false
			}
		}
		return true
	})
	switch {
	case err != nil:
		return 0, err
	case unbalanced != nil:
		return 0, unbalanced
	case at < 0:
		return 0, fmt.Errorf("unclosed %q at offset %d", src[open], open)
	}
	return at, nil
}

// addToImportsArray lists className last in the top-level imports array of
// the @Module decorator, adding the array when the decorator has none.
func addToImportsArray(src, className string) (string, error) {
	decorator := -1
	if err := walkCode(src, 0, func(i, end int) bool {
		if i == end && strings.HasPrefix(src[i:], "@Module(") {
			decorator = i
			return false
		}
		return true
	}); err != nil {
		return "", err
	}
	if decorator < 0 {
		return "", errors.New("no @Module({ ... }) decorator found")
	}

	obj := skipSpace(src, decorator+len("@Module("))
	if obj >= len(src) || src[obj] != '{' {
		return "", errors.New("@Module decorator has no object argument")
	}
	objClose, err := matchingClose(src, obj)
	if err != nil {
		return "", err
	}

	open, err := importsArray(src, obj, objClose)
	if err != nil {
		return "", err
	}
	if open < 0 {
		return src[:obj+1] + "\n  imports: [" + className + "]," + src[obj+1:], nil
	}
	end, err := matchingClose(src, open)
	if err != nil {
		return "", err
	}

	inner := src[open+1 : end]
	body := strings.TrimRight(inner, " \t\r\n")
	trailing := inner[len(body):]
	comma := ""
	if strings.HasSuffix(body, ",") {
		body, comma = strings.TrimSuffix(body, ","), ","
	}

	var updated string
	switch {
	case strings.TrimSpace(body) == "":
		updated = className
	case strings.Contains(inner, "\n"):
		last := body[strings.LastIndex(body, "\n")+1:]
		indent := last[:len(last)-len(strings.TrimLeft(last, " \t"))]
		updated = body + ",\n" + indent + className + comma + trailing
	default:
		updated = body + ", " + className + comma + trailing
	}
	return src[:open+1] + updated + src[end:], nil
}

// importsArray returns the offset of the '[' opening the imports property of
// the object literal spanning obj..objClose, or -1 when it has none.
// Properties of nested objects are ignored.
func importsArray(src string, obj, objClose int) (int, error) {
	at, depth := -1, 0
	err := walkCode(src, obj+1, func(i, end int) bool {
		if i >= objClose {
			return false
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && i == end && isWord(src, i, "imports") {
				colon := skipSpace(src, i+len("imports"))
				if colon < len(src) && src[colon] == ':' {
					if k := skipSpace(src, colon+1); k < len(src) && src[k] == '[' {
						at = k
						return false
					}
				}
			}
		}
		return true
	})
	return at, err
}

// insertImport places stmt after the last top-level import declaration, or
// at the top when there is none. stmt carries no semicolon: one is added
// when the preceding import ends with one.
func insertImport(src, stmt string) (string, error) {
	last, semi := -1, true
	depth := 0
	inImport := false

	err := walkCode(src, 0, func(i, end int) bool {
		c := src[i]
		switch {
		case i != end:
			// the module specifier ends the declaration
			if inImport {
				k := end + 1
				for k < len(src) && (src[k] == ' ' || src[k] == '\t') {
					k++
				}
				semi = k < len(src) && src[k] == ';'
				last = end + 1
				if semi {
					last = k + 1
				}
				inImport = false
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case depth == 0 && !inImport && atLineStart(src, i) && isImportDecl(src, i):
			inImport = true
		}
		return true
	})
	if err != nil {
		return "", err
	}

	if last < 0 {
		return stmt + ";\n" + src, nil
	}
	if semi {
		stmt += ";"
	}
	return src[:last] + "\n" + stmt + src[last:], nil
}

// isImportDecl reports whether an import declaration starts at i, as opposed
// to import() or import.meta.
func isImportDecl(src string, i int) bool {
	if !isWord(src, i, "import") {
		return false
	}
	next := skipSpace(src, i+len("import"))
	return next < len(src) && src[next] != '(' && src[next] != '.'
}

func isWord(src string, i int, word string) bool {
	if !strings.HasPrefix(src[i:], word) {
		return false
	}
	if i > 0 && isIdentByte(src[i-1]) {
		return false
	}
	after := i + len(word)
	return after >= len(src) || !isIdentByte(src[after])
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func atLineStart(src string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch src[j] {
		case '\n':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func skipSpace(src string, i int) int {
	for i < len(src) && strings.IndexByte(" \t\r\n", src[i]) >= 0 {
		i++
	}
	return i
}
