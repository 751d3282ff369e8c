// Package transfer moves the item collection in and out of files and the
// system clipboard using the codec formats.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/nissyi-gh/actionlist/internal/codec"
	"github.com/nissyi-gh/actionlist/internal/model"
)

// Format names a file format for import and export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned for a format name or file extension that is not supported.
var ErrUnknownFormat = errors.New("unsupported file type")

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// ParseFormat resolves a format name such as "csv" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("format %q: %w", name, ErrUnknownFormat)
}

// FormatForPath picks the format from a file's extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension: %w", filepath.Base(path), ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// FileName returns the export file name for the given day,
// e.g. action-items-2025-05-05.csv.
func FileName(f Format, today string) string {
	return fmt.Sprintf("action-items-%s.%s", today, f)
}

// Encode serializes items in the given format.
func Encode(f Format, items []model.Item) ([]byte, error) {
	switch f {
	case FormatCSV:
		return []byte(codec.EncodeCSV(items)), nil
	case FormatJSON:
		return codec.EncodeJSON(items)
	case FormatYAML:
		return codec.EncodeYAML(items)
	}
	return nil, fmt.Errorf("encode %q: %w", f, ErrUnknownFormat)
}

// Decode parses data in the given format. Any error rejects the whole input.
func Decode(f Format, data []byte, today string) ([]model.Item, error) {
	switch f {
	case FormatCSV:
		return codec.DecodeCSV(string(data), today)
	case FormatJSON:
		res := codec.DecodeJSON(data)
		return res.Items, res.Err()
	case FormatYAML:
		res := codec.DecodeYAML(data)
		return res.Items, res.Err()
	}
	return nil, fmt.Errorf("decode %q: %w", f, ErrUnknownFormat)
}

// Export writes items to dir under FileName and returns the written path.
func Export(dir string, f Format, items []model.Item, today string) (string, error) {
	data, err := Encode(f, items)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(f, today))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadFile reads and decodes one file, choosing the format by extension.
func ReadFile(path, today string) ([]model.Item, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := Decode(f, data, today)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// Replacer accepts a whole new collection.
type Replacer interface {
	Replace(items []model.Item) error
}

// Import reads path and hands the decoded items to r.
// On any error r is not called. Returns the number of items imported.
func Import(r Replacer, path, today string) (int, error) {
	items, err := ReadFile(path, today)
	if err != nil {
		return 0, err
	}
	if err := r.Replace(items); err != nil {
		return 0, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	return len(items), nil
}

// CopyToClipboard places the encoded collection on the system clipboard.
func CopyToClipboard(f Format, items []model.Item) error {
	data, err := Encode(f, items)
	if err != nil {
		return err
	}
	if err := writeClipboard(string(data)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
