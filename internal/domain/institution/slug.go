package institution

import (
	"strings"
	"unicode"
)

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "x", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sh", 'ъ': "",
	'ы': "i", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'ў': "o", 'қ': "q", 'ғ': "g", 'ҳ': "h",
}

// Slugify lowercases s, transliterates Cyrillic and collapses everything
// outside [a-z0-9] into single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false

	write := func(part string) {
		for _, c := range part {
			if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
				b.WriteRune(c)
				dash = false
				continue
			}
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	for _, c := range strings.ToLower(s) {
		if latin, ok := cyrillicToLatin[c]; ok {
			write(latin)
			continue
		}
		if c == '\'' || c == 'ʻ' || c == 'ʼ' || c == '‘' || c == '’' {
			// o'quv -> oquv
			continue
		}
		if unicode.IsSpace(c) || c > unicode.MaxASCII {
			write("-")
			continue
		}
		write(string(c))
	}

	return strings.Trim(b.String(), "-")
}

// slugBase picks the first name that produces a non-empty slug
func slugBase(names ...string) string {
	for _, n := range names {
		if s := Slugify(n); s != "" {
			return s
		}
	}
	return "institution"
}
