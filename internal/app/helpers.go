package app

import (
	"fmt"
	"strings"

	"shelfsite/internal/library"
)

// parseBookRef splits a "<shelf>/<file>" argument. A bare file name is
// allowed when --shelf is given.
func parseBookRef(arg, shelfFlag string) (shelfID, fileName string, err error) {
	if i := strings.IndexByte(arg, '/'); i >= 0 {
		shelfID, fileName = arg[:i], arg[i+1:]
	} else {
		shelfID, fileName = shelfFlag, arg
	}
	if shelfID == "" {
		return "", "", fmt.Errorf("no shelf for %q — use <shelf>/<file> or --shelf", arg)
	}
	if fileName == "" || strings.ContainsAny(fileName, "/\\") {
		return "", "", fmt.Errorf("invalid book file name %q", fileName)
	}
	if !strings.HasSuffix(fileName, ".json") {
		fileName += ".json"
	}
	return shelfID, fileName, nil
}

// findBook loads the book addressed by a "<shelf>/<file>" ref.
func findBook(arg, shelfFlag string) (*library.BookWithMeta, error) {
	shelfID, fileName, err := parseBookRef(arg, shelfFlag)
	if err != nil {
		return nil, err
	}
	return lib.BookByRef(shelfID, fileName)
}

// reportSkipped surfaces records the loader could not parse.
func reportSkipped(skipped []string) {
	for _, s := range skipped {
		warn("skipped %s", s)
	}
}
