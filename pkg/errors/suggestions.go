// Package errors provides a suggestions registry for error remediation.
// Maps error codes to suggestions that help users fix issues.
package errors

import (
	"sort"
	"strings"
)

// Suggestion represents a remediation suggestion with an optional priority.
type Suggestion struct {
	// Text is the suggestion message displayed to the user.
	Text string

	// Priority determines order when multiple suggestions apply.
	// Higher priority suggestions are shown first.
	Priority int
}

// Registry maps error codes to their remediation suggestions.
type Registry struct {
	suggestions map[string][]Suggestion
}

// NewRegistry creates a new suggestion registry.
func NewRegistry() *Registry {
	return &Registry{
		suggestions: make(map[string][]Suggestion),
	}
}

// Register adds a suggestion for an error code.
func (r *Registry) Register(code, text string) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{Text: text})
	return r
}

// RegisterWithPriority adds a suggestion with explicit priority.
func (r *Registry) RegisterWithPriority(code, text string, priority int) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{
		Text:     text,
		Priority: priority,
	})
	return r
}

// Get returns the suggestions for an error code, highest priority first.
func (r *Registry) Get(code string) []string {
	all, ok := r.suggestions[code]
	if !ok {
		return nil
	}

	sorted := make([]Suggestion, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	result := make([]string, len(sorted))
	for i, s := range sorted {
		result[i] = s.Text
	}
	return result
}

// HasSuggestions returns true if any suggestions exist for the error code.
func (r *Registry) HasSuggestions(code string) bool {
	return len(r.suggestions[code]) > 0
}

// Codes returns all error codes that have registered suggestions, sorted.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.suggestions))
	for code := range r.suggestions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global suggestion registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// GetSuggestions returns suggestions for a code from the default registry.
func GetSuggestions(code string) []string {
	return defaultRegistry.Get(code)
}

func init() {
	registerConfigSuggestions()
	registerInputSuggestions()
	registerParseSuggestions()
	registerValidationSuggestions()
	registerIOSuggestions()
}

func registerConfigSuggestions() {
	defaultRegistry.
		RegisterWithPriority(ErrConfigNotFound, "Run 'classreport -init' to create a default config file", 10).
		Register(ErrConfigNotFound, "Check the -config path").
		Register(ErrConfigParseFailed, "Check the YAML syntax (indentation uses spaces, not tabs)").
		Register(ErrConfigParseFailed, "Regenerate a clean file with 'classreport -init'").
		Register(ErrConfigInvalid, "Compare the file against the output of 'classreport -init'").
		Register(ErrConfigWriteFailed, "Check that the config directory is writable")
}

func registerInputSuggestions() {
	defaultRegistry.
		Register(ErrJobDirNotFound, "Pass the job directory, e.g. Class3D/job012/").
		RegisterWithPriority(ErrJobManifestNotFound, "Pass the job directory itself, the one holding run.job", 10).
		Register(ErrJobManifestNotFound, "Check that the job was started from the RELION GUI or a run.job was copied in").
		Register(ErrJobClassesMissing, "Add a line 'Number of classes: == <n>' to run.job").
		Register(ErrJobClassesInvalid, "The class count after '== ' must be a positive integer").
		RegisterWithPriority(ErrIterationNoFiles, "Wait until the job has written its first *_model.star file", 10).
		Register(ErrIterationNoFiles, "Check the input.pattern setting in the config file")
}

func registerParseSuggestions() {
	defaultRegistry.
		Register(ErrStarRowMismatch, "The file may be truncated; re-run the report once the iteration has finished writing").
		Register(ErrStarNoColumns, "Check that the table carries a loop_ header with _rln columns")
}

func registerValidationSuggestions() {
	defaultRegistry.
		RegisterWithPriority(ErrClassCountMismatch, "Check 'Number of classes' in run.job against the model files", 10).
		Register(ErrClassCountMismatch, "Use -truncate to keep only the declared classes")
}

func registerIOSuggestions() {
	defaultRegistry.
		Register(ErrIOReadFailed, "Check file permissions").
		Register(ErrIOWriteFailed, "Check that the output directory exists and is writable").
		Register(ErrIOFileNotFound, "Check the path")
}

// AttachSuggestions adds default suggestions to an error for its code.
// Suggestions already present are not duplicated.
func AttachSuggestions(err *ReportError) *ReportError {
	if err == nil {
		return nil
	}
	for _, s := range defaultRegistry.Get(err.Code) {
		if !containsString(err.Suggestions, s) {
			err.Suggestions = append(err.Suggestions, s)
		}
	}
	return err
}

// FormatSuggestionList renders suggestions as a bulleted list.
func FormatSuggestionList(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, s := range suggestions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  → ")
		sb.WriteString(s)
	}
	return sb.String()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
