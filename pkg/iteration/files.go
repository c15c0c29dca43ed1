// Package iteration finds the per-iteration model files of a job and reads
// the per-class statistics out of each one, in iteration order.
package iteration

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

const (
	iterationMarker    = "it"
	iterationDigits    = 3
	continuationPrefix = "run_ct"
)

// File is one per-iteration model file.
type File struct {
	Path string
	Name string

	// Iteration is the number written in the file name.
	Iteration int

	// Continuation is set for files written by a continued run (run_ct*).
	Continuation bool
}

// Key returns the sort key. A continuation file reporting iteration N sorts
// after the regular file for N and before the regular file for N+1.
func (f File) Key() (iteration, rank int) {
	if f.Continuation {
		return f.Iteration + 1, 0
	}
	return f.Iteration, 1
}

// Less orders files by key, then by name.
func (f File) Less(o File) bool {
	fi, fr := f.Key()
	oi, or := o.Key()
	if fi != oi {
		return fi < oi
	}
	if fr != or {
		return fr < or
	}
	return f.Name < o.Name
}

// ParseName reads the iteration from the three digits after the first "it"
// in the base name of path. ok is false when they are not there.
func ParseName(path string) (File, bool) {
	name := filepath.Base(path)

	i := strings.Index(name, iterationMarker)
	if i < 0 {
		return File{}, false
	}
	digits := name[i+len(iterationMarker):]
	if len(digits) < iterationDigits {
		return File{}, false
	}
	digits = digits[:iterationDigits]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return File{}, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:         path,
		Name:         name,
		Iteration:    n,
		Continuation: strings.HasPrefix(name, continuationPrefix),
	}, true
}

// Sort orders files in place by Less.
func Sort(files []File) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Less(files[j])
	})
}

// Discover returns the files in dir matching pattern, sorted.
// Names without an iteration number are skipped.
func Discover(dir, pattern string) ([]File, error) {
	files, _, err := discover(dir, pattern)
	return files, err
}

// discover also returns the names it skipped.
func discover(dir, pattern string) ([]File, []string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, rerrors.Config(rerrors.ErrConfigInvalid, "bad model file pattern").
			WithContext("pattern", pattern).
			WithCause(err)
	}

	var files []File
	var skipped []string
	for _, m := range matches {
		f, ok := ParseName(m)
		if !ok {
			skipped = append(skipped, filepath.Base(m))
			continue
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, skipped, rerrors.Inputf(rerrors.ErrIterationNoFiles, "no model files in %s", dir).
			WithContext("dir", dir).
			WithContext("pattern", pattern)
	}

	Sort(files)
	return files, skipped, nil
}
