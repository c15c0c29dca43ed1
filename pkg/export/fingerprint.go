package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

// HashAlgorithm identifies the hashing algorithm used for fingerprints.
const HashAlgorithm = "SHA-256"

// InputDigest is the content hash of one input file.
type InputDigest struct {
	Name   string
	SHA256 string
}

// Fingerprint identifies the inputs and settings a report was built from.
// Identical inputs produce identical fingerprints.
type Fingerprint struct {
	Hash      string
	Algorithm string

	ToolVersion string
	Job         string
	Classes     int
	Inputs      []InputDigest
	Parameters  map[string]string
}

// FingerprintBuilder collects the fields of a Fingerprint.
type FingerprintBuilder struct {
	fp *Fingerprint
}

// NewFingerprintBuilder returns an empty builder.
func NewFingerprintBuilder() *FingerprintBuilder {
	return &FingerprintBuilder{fp: &Fingerprint{
		Algorithm:  HashAlgorithm,
		Parameters: make(map[string]string),
	}}
}

func (fb *FingerprintBuilder) WithToolVersion(version string) *FingerprintBuilder {
	fb.fp.ToolVersion = version
	return fb
}

func (fb *FingerprintBuilder) WithJob(job string, classes int) *FingerprintBuilder {
	fb.fp.Job = job
	fb.fp.Classes = classes
	return fb
}

// WithParameter records a setting that changes the report, such as the
// mismatch policy.
func (fb *FingerprintBuilder) WithParameter(key, value string) *FingerprintBuilder {
	fb.fp.Parameters[key] = value
	return fb
}

// WithInput records the digest of an input file.
func (fb *FingerprintBuilder) WithInput(name, sha string) *FingerprintBuilder {
	fb.fp.Inputs = append(fb.fp.Inputs, InputDigest{Name: name, SHA256: sha})
	return fb
}

// WithFile hashes the file at path and records it under its base name.
func (fb *FingerprintBuilder) WithFile(path string) error {
	sum, err := DigestFile(path)
	if err != nil {
		return err
	}
	fb.WithInput(filepath.Base(path), sum)
	return nil
}

// Build computes the hash.
func (fb *FingerprintBuilder) Build() *Fingerprint {
	fp := *fb.fp
	fp.Inputs = append([]InputDigest(nil), fb.fp.Inputs...)
	sort.Slice(fp.Inputs, func(i, j int) bool { return fp.Inputs[i].Name < fp.Inputs[j].Name })
	fp.Hash = computeHash(&fp)
	return &fp
}

// computeHash hashes a canonical rendering of fp. Field order is fixed and
// map keys and inputs are sorted.
func computeHash(fp *Fingerprint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "version:%s|job:%s|classes:%d|", fp.ToolVersion, fp.Job, fp.Classes)

	if len(fp.Parameters) > 0 {
		keys := make([]string, 0, len(fp.Parameters))
		for k := range fp.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("params:")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(k + "=" + fp.Parameters[k])
		}
		sb.WriteString("|")
	}

	inputs := append([]InputDigest(nil), fp.Inputs...)
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	sb.WriteString("inputs:")
	for i, in := range inputs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(in.Name + "=" + in.SHA256)
	}
	sb.WriteString("|")

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 8 characters of the hash.
func (fp *Fingerprint) ShortHash() string {
	if len(fp.Hash) >= 8 {
		return fp.Hash[:8]
	}
	return fp.Hash
}

// Verify recomputes the hash and compares it with the stored one.
func (fp *Fingerprint) Verify() bool {
	return fp.Hash != "" && computeHash(fp) == fp.Hash
}

// DigestFile returns the hex SHA-256 of the file at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", rerrors.IOWrapf(err, rerrors.ErrIOReadFailed, "failed to open %s", path).
			WithContext("file", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", rerrors.IOWrapf(err, rerrors.ErrIOReadFailed, "failed to read %s", path).
			WithContext("file", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
