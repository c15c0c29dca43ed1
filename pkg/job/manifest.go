// Package job reads the run.job parameter file of a RELION job directory.
package job

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

const (
	// ManifestName is the parameter file written into every job directory.
	ManifestName = "run.job"

	classesLabel = "Number of classes"
	separator    = "== "
)

// Manifest holds the parameters of a job.
type Manifest struct {
	// Path is the file the manifest was read from, empty for readers.
	Path string

	// Classes is the declared number of classes.
	Classes int

	// Params maps every "label == value" line to its value.
	Params map[string]string
}

// Param returns the value of label and whether it was present.
func (m *Manifest) Param(label string) (string, bool) {
	v, ok := m.Params[label]
	return v, ok
}

// FindManifest returns the path of the manifest called name inside dir.
// An empty name means run.job.
func FindManifest(dir, name string) (string, error) {
	if name == "" {
		name = ManifestName
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", rerrors.Inputf(rerrors.ErrJobDirNotFound, "job directory %s does not exist", dir).
			WithContext("dir", dir)
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", rerrors.Inputf(rerrors.ErrJobManifestNotFound, "no %s in %s", name, dir).
			WithContext("dir", dir).
			WithCause(err)
	}
	return path, nil
}

// ReadManifest reads and parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.Inputf(rerrors.ErrJobManifestNotFound, "manifest %s does not exist", path).
				WithContext("path", path)
		}
		return nil, rerrors.IOWrapf(err, rerrors.ErrIOReadFailed, "failed to open %s", path).
			WithContext("path", path)
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		if re, ok := rerrors.AsReportError(err); ok {
			return nil, re.WithContext("path", path)
		}
		return nil, err
	}
	m.Path = path
	return m, nil
}

// ParseManifest reads "label == value" lines from r. The "Number of classes"
// line is required and must hold a positive integer.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{Params: make(map[string]string)}
	classes := ""
	found := false

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		i := strings.Index(line, separator)
		if i < 0 {
			continue
		}
		label := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+len(separator):])
		m.Params[label] = value

		if !found && strings.HasPrefix(line, classesLabel) {
			classes = value
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, rerrors.IOWrap(err, rerrors.ErrIOReadFailed, "failed to read manifest")
	}

	if !found {
		return nil, rerrors.Input(rerrors.ErrJobClassesMissing, "manifest has no \"Number of classes\" line")
	}
	n, err := strconv.Atoi(classes)
	if err != nil || n < 1 {
		return nil, rerrors.Inputf(rerrors.ErrJobClassesInvalid, "invalid class count %q", classes).
			WithContext("value", classes)
	}
	m.Classes = n
	return m, nil
}
