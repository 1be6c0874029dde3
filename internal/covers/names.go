package covers

import (
	"fmt"
	"os"
	"path/filepath"

	"shelfsite/internal/library"
)

// UniqueName derives a cover file name from a book title and, if a file
// of that name already exists in dir (a different book with the same
// title slug), appends a numeric suffix until a free name is found.
func UniqueName(dir, title, ext string) string {
	if ext == "" {
		ext = "jpg"
	}
	base := library.Slug(title)
	if base == "" {
		base = "cover"
	}
	name := base + "." + ext
	for counter := 1; exists(filepath.Join(dir, name)); counter++ {
		name = fmt.Sprintf("%s-%d.%s", base, counter, ext)
	}
	return name
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
