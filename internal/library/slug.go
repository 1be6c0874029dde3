package library

import "strings"

const maxSlugLen = 50

// Slug converts a title to a kebab-cased file-safe name: lowercased,
// runs of non-alphanumerics collapsed to single dashes, trimmed, and
// capped at 50 characters. Book file names and cover file names both
// derive from this.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-")
	}
	return out
}

// BookFileName derives the record file name for a new book. Derived once
// at creation; later title edits do not rename the file.
func BookFileName(title string) string {
	return Slug(title) + ".json"
}
