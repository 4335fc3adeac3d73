package wavetable

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader enumerates wavetables available from some backing store and loads
// them by index. Load may block (file IO) and is expected to be called off
// the audio thread.
type Loader interface {
	NumTables() int
	TableName(i int) string
	Load(i int) (*Table, error)
}

// StaticLoader serves pre-built tables from memory.
type StaticLoader struct {
	tables []*Table
}

// NewStaticLoader wraps the given tables. Nil entries are rejected.
func NewStaticLoader(tables ...*Table) (*StaticLoader, error) {
	for i, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("wavetable: table %d is nil", i)
		}
	}

	return &StaticLoader{tables: tables}, nil
}

// NumTables returns the number of tables.
func (l *StaticLoader) NumTables() int { return len(l.tables) }

// TableName returns the name of table i, or "" when out of range.
func (l *StaticLoader) TableName(i int) string {
	if i < 0 || i >= len(l.tables) {
		return ""
	}

	return l.tables[i].Name()
}

// Load returns table i.
func (l *StaticLoader) Load(i int) (*Table, error) {
	if i < 0 || i >= len(l.tables) {
		return nil, fmt.Errorf("wavetable: table index must be in [0, %d]: %d", len(l.tables)-1, i)
	}

	return l.tables[i], nil
}

// DirLoader serves wavetables from the .wav files of a directory,
// ordered by file name.
type DirLoader struct {
	dir      string
	frameLen int
	files    []string
}

// NewDirLoader scans dir for .wav files. frameLen is the single-cycle frame
// length used to slice each file.
func NewDirLoader(dir string, frameLen int) (*DirLoader, error) {
	if frameLen < MinFrameLen {
		return nil, fmt.Errorf("wavetable: frame length must be >= %d: %d", MinFrameLen, frameLen)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)

	return &DirLoader{dir: dir, frameLen: frameLen, files: files}, nil
}

// NumTables returns the number of .wav files found.
func (l *DirLoader) NumTables() int { return len(l.files) }

// TableName returns the file name of table i without its extension.
func (l *DirLoader) TableName(i int) string {
	if i < 0 || i >= len(l.files) {
		return ""
	}

	name := l.files[i]

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Load decodes and slices file i.
func (l *DirLoader) Load(i int) (*Table, error) {
	if i < 0 || i >= len(l.files) {
		return nil, fmt.Errorf("wavetable: table index must be in [0, %d]: %d", len(l.files)-1, i)
	}

	return LoadFile(filepath.Join(l.dir, l.files[i]), l.frameLen)
}
