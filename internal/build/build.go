// Package build compiles a library into a deployable static bundle.
// Builds are full regenerations: the output directory is recreated from
// scratch on every run, so an unchanged source reproduces the bundle
// byte for byte.
package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shelfsite/internal/library"
	"shelfsite/internal/util"
)

// Options configures one build.
type Options struct {
	// DistDir is the bundle output directory. Defaults to <site>/dist.
	DistDir string
	// SourceDir overrides the books root, e.g. a books-sample/ tree.
	// Empty means the library's own books directory.
	SourceDir string
	// StaticAssets are site-root files copied verbatim.
	StaticAssets []string
	// TemplateAssets are site-root files with config placeholders.
	TemplateAssets []string
}

// DefaultStaticAssets are the published site's fixed files.
var DefaultStaticAssets = []string{"styles-minimalist.css", "app.js", "favicon.svg"}

// DefaultTemplateAssets carry {{siteTitle}}-style placeholders.
var DefaultTemplateAssets = []string{"index.html"}

// Result summarizes a completed build.
type Result struct {
	Books    int
	PerShelf []ShelfCount
	Warnings []string
}

// ShelfCount is the number of book records bundled for one shelf folder.
type ShelfCount struct {
	Folder string
	Count  int
}

// Run builds the bundle. The config document is loaded before any
// output mutation; a missing config aborts with the dist directory
// untouched. Missing optional inputs (a shelf folder, the covers
// directory, a listed asset) are skipped with a warning.
func Run(lib library.Library, opts Options) (*Result, error) {
	cfg, err := lib.LoadConfig()
	if err != nil {
		return nil, err
	}

	dist := opts.DistDir
	if dist == "" {
		dist = filepath.Join(lib.Root(), "dist")
	}
	source := opts.SourceDir
	if source == "" {
		source = lib.BooksDir()
	}
	static := opts.StaticAssets
	if static == nil {
		static = DefaultStaticAssets
	}
	templates := opts.TemplateAssets
	if templates == nil {
		templates = DefaultTemplateAssets
	}

	res := &Result{}

	// Full regeneration: stale artifacts never survive a build.
	if err := os.RemoveAll(dist); err != nil {
		return nil, fmt.Errorf("cleaning dist: %w", err)
	}
	if err := util.EnsureDir(dist); err != nil {
		return nil, fmt.Errorf("creating dist: %w", err)
	}

	for _, name := range static {
		src := filepath.Join(lib.Root(), name)
		if !fileExists(src) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("static file not found: %s", name))
			continue
		}
		if err := util.CopyFile(src, filepath.Join(dist, name)); err != nil {
			return nil, fmt.Errorf("copying %s: %w", name, err)
		}
	}

	for _, name := range templates {
		src := filepath.Join(lib.Root(), name)
		if !fileExists(src) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("template file not found: %s", name))
			continue
		}
		if err := renderTemplate(src, filepath.Join(dist, name), cfg); err != nil {
			return nil, err
		}
	}

	// The runtime site reads shelf labels from the bundled config.
	if err := util.CopyFile(lib.ConfigPath(), filepath.Join(dist, "config.json")); err != nil {
		return nil, fmt.Errorf("copying config: %w", err)
	}

	index, err := copyBooks(cfg, source, filepath.Join(dist, "books"), res)
	if err != nil {
		return nil, err
	}
	if err := writeIndex(filepath.Join(dist, "books", "index.json"), index); err != nil {
		return nil, err
	}

	if err := copyCovers(filepath.Join(source, "covers"), filepath.Join(dist, "books", "covers")); err != nil {
		return nil, err
	}

	res.Books = len(index)
	return res, nil
}

// copyBooks copies every shelf's records in config order and returns
// the accumulated book index: relative paths, shelf iteration order
// first, lexicographic file order within a shelf.
func copyBooks(cfg *library.Config, source, distBooks string, res *Result) ([]string, error) {
	if err := util.EnsureDir(distBooks); err != nil {
		return nil, err
	}
	index := make([]string, 0)
	for _, shelf := range cfg.Shelves {
		srcDir := filepath.Join(source, shelf.Folder)
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			if os.IsNotExist(err) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("shelf folder not found: %s", shelf.Folder))
				continue
			}
			return nil, fmt.Errorf("reading shelf folder %s: %w", shelf.Folder, err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		count := 0
		for _, name := range names {
			dst := filepath.Join(distBooks, shelf.Folder, name)
			if err := util.CopyFile(filepath.Join(srcDir, name), dst); err != nil {
				return nil, fmt.Errorf("copying book %s/%s: %w", shelf.Folder, name, err)
			}
			index = append(index, shelf.Folder+"/"+name)
			count++
		}
		res.PerShelf = append(res.PerShelf, ShelfCount{Folder: shelf.Folder, Count: count})
	}
	return index, nil
}

// writeIndex persists the book index, the only manifest the runtime
// site consumes to discover books.
func writeIndex(path string, index []string) error {
	data, err := json.MarshalIndent(index, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding book index: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing book index: %w", err)
	}
	return nil
}

// copyCovers copies the cached covers, excluding hidden files. An
// absent covers directory is fine.
func copyCovers(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading covers: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if err := util.CopyFile(filepath.Join(srcDir, name), filepath.Join(dstDir, name)); err != nil {
			return fmt.Errorf("copying cover %s: %w", name, err)
		}
	}
	return nil
}

// renderTemplate substitutes config placeholders. Placeholders outside
// the known set pass through untouched.
func renderTemplate(src, dst string, cfg *library.Config) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	content := string(data)
	content = strings.ReplaceAll(content, "{{siteTitle}}", cfg.SiteTitle)
	content = strings.ReplaceAll(content, "{{siteSubtitle}}", cfg.SiteSubtitle)
	content = strings.ReplaceAll(content, "{{footerText}}", cfg.FooterText)
	if err := os.WriteFile(dst, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
