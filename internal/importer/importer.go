package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoInput means the scan found no statement files.
	ErrNoInput = errors.New("no input files found")
	// ErrNoRows means the statements parsed but produced no records.
	ErrNoRows = errors.New("no records extracted")
)

// Options controls one conversion run.
type Options struct {
	InputFolder string
	InputFile   string
	OutputCSV   string
	OutputJSON  string
	OutputExcel string
	Recursive   bool
	Password    string
	Strict      bool
	Logger      logrus.FieldLogger
}

// Input returns the file or folder to scan.
func (o Options) Input() string {
	if o.InputFile != "" {
		return o.InputFile
	}
	return o.InputFolder
}

// Log returns the configured logger or the logrus standard logger.
func (o Options) Log() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// Result summarizes a conversion run.
type Result struct {
	Format string
	Files  int
	Parsed int
	Failed int
	Rows   int
	Output string
}

// Converter turns a batch of statements into one normalized CSV.
type Converter interface {
	Format() string
	Description() string
	DefaultRecursive() bool
	Convert(ctx context.Context, opts Options) (Result, error)
}

// Registry holds named converters.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds a converter. Panics on duplicate format.
func (r *Registry) Register(c Converter) {
	key := strings.ToLower(c.Format())
	if _, ok := r.converters[key]; ok {
		panic("duplicate converter format: " + key)
	}
	r.converters[key] = c
}

// Get returns the converter for format, or nil.
func (r *Registry) Get(format string) Converter {
	return r.converters[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.converters))
	for k := range r.converters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FileInfo describes a statement file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns files under root whose extension matches ext (case-insensitive),
// sorted by path. When root is a file it is returned alone, whatever its extension.
func Scan(root, ext string, recursive bool) ([]FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !info.IsDir() {
		return []FileInfo{{Name: info.Name(), Path: root, Size: info.Size()}}, nil
	}

	ext = strings.ToLower(ext)
	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.ToLower(filepath.Ext(d.Name())) != ext {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", d.Name(), err)
		}
		files = append(files, FileInfo{Name: d.Name(), Path: path, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
