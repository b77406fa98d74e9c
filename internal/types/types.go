// Package types defines every cross‑package data structure used by the projsnap CLI.
package types

import "path/filepath"

// InspectionKind identifies which branch of the content-inclusion policy produced a file body.
type InspectionKind string

const (
	InspectionEmpty     InspectionKind = "empty"
	InspectionOmitted   InspectionKind = "omitted"
	InspectionTruncated InspectionKind = "truncated"
	InspectionContent   InspectionKind = "content"
	InspectionFailed    InspectionKind = "failed"
)

// Settings carries every tunable of a snapshot run.
type Settings struct {
	// RootDirectory is the traversal root; every relative path is computed against it.
	RootDirectory string
	// OutputPath is where the rendered snapshot is written.
	OutputPath string

	IgnoreFileName string
	HeaderFileName string
	FooterFileName string
	ConfigFileName string
	// ExecutableName is the base name of the running binary, excluded like the other tool files.
	ExecutableName string

	IndentUnit      string
	Arrow           string
	HideHidden      bool
	MaxFileSize     int64
	Title           string
	EmptyFileText   string
	OmittedText     string
	TruncatedText   string
	ReadErrorFormat string
	RecursiveText   string
}

// ReservedFileNames returns the base names that never appear in either output list.
func (settings Settings) ReservedFileNames() map[string]struct{} {
	reserved := make(map[string]struct{})
	for _, name := range []string{
		settings.ExecutableName,
		outputBaseName(settings.OutputPath),
		settings.IgnoreFileName,
		settings.HeaderFileName,
		settings.FooterFileName,
		settings.ConfigFileName,
	} {
		if name != "" {
			reserved[name] = struct{}{}
		}
	}
	return reserved
}

// FileInspection is the outcome of applying the content-inclusion policy to one file.
type FileInspection struct {
	Kind  InspectionKind
	Lines []string
	Err   error
}

// Snapshot is the fully collected state of one run, ready to be rendered.
type Snapshot struct {
	Header         string
	Footer         string
	StructureLines []string
	ContentLines   []string
	FileCount      int
	DirectoryCount int
}

func outputBaseName(outputPath string) string {
	if outputPath == "" {
		return ""
	}
	return filepath.Base(outputPath)
}
