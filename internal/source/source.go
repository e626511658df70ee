// Package source discovers raw documents on disk and decodes document
// records handed over by other tools.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knowledge-engine/explorer/internal/document"
)

// DefaultExtensions are the file types a Directory reads.
var DefaultExtensions = []string{".md", ".markdown", ".txt", ".html", ".htm"}

// Loader produces raw documents.
type Loader interface {
	Load() ([]document.Raw, error)
}

// Directory loads every matching file below Root.
type Directory struct {
	Root       string
	Extensions []string
}

// NewDirectory creates a directory loader. Nil extensions select
// DefaultExtensions.
func NewDirectory(root string, extensions []string) *Directory {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[i] = ext
	}
	return &Directory{Root: root, Extensions: normalized}
}

// Matches reports whether path has one of the loader's extensions.
func (d *Directory) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load walks Root, skipping hidden directories. Paths are relative to
// Root with forward slashes, sorted.
func (d *Directory) Load() ([]document.Raw, error) {
	var docs []document.Raw
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != d.Root && IsHidden(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsHidden(entry.Name()) || !d.Matches(path) {
			return nil
		}

		raw, err := d.readFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, raw)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", d.Root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (d *Directory) readFile(path string) (document.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Raw{}, fmt.Errorf("failed to read file: %w", err)
	}

	rel, err := filepath.Rel(d.Root, path)
	if err != nil {
		rel = path
	}
	raw := document.Raw{
		Path:    filepath.ToSlash(rel),
		Name:    filepath.Base(path),
		Content: string(data),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		title, text, err := parseHTML(bytes.NewReader(data))
		if err != nil {
			return document.Raw{}, fmt.Errorf("parsing error in %s: %w", raw.Path, err)
		}
		if title != "" {
			raw.Name = title
		}
		raw.Content = text
	}
	return raw, nil
}

// IsHidden reports whether a file or directory name is a dotfile.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ReadJSON decodes an array of {path, name?, content?} records.
func ReadJSON(r io.Reader) ([]document.Raw, error) {
	var docs []document.Raw
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}
	for i, d := range docs {
		if strings.TrimSpace(d.Path) == "" {
			return nil, fmt.Errorf("%w: record %d has no path", document.ErrInvalidInput, i)
		}
	}
	return docs, nil
}

// JSONFile loads the records of a JSON file, "-" meaning stdin.
type JSONFile string

// Load implements Loader.
func (f JSONFile) Load() ([]document.Raw, error) {
	return ReadJSONFile(string(f))
}

// ReadJSONFile is ReadJSON over a file; "-" reads standard input.
func ReadJSONFile(path string) ([]document.Raw, error) {
	if path == "-" {
		return ReadJSON(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
