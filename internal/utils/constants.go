package utils

// File names and markers used when no configuration overrides them.
const (
	// DefaultOutputFileName is written into the working directory.
	DefaultOutputFileName = "project_structure.txt"
	// IgnoreFileName lists root-relative paths to omit.
	IgnoreFileName = ".projectignore"
	// HeaderFileName holds optional text written before the structure.
	HeaderFileName = ".projectheader"
	// FooterFileName holds optional text written after the contents.
	FooterFileName = ".projectfooter"
	// LocalConfigFileName is the per-project configuration file.
	LocalConfigFileName = ".projsnap.yaml"
	// GlobalConfigDirectoryName is created under the user's home directory.
	GlobalConfigDirectoryName = ".projsnap"
	// GlobalConfigFileName lives inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"

	DefaultIndentUnit       = "\t"
	DefaultArrow            = "->"
	DefaultMaxFileSize      = 1000000
	DefaultTitle            = "Project Repository Structure:"
	EmptyFilePlaceholder    = "[not yet implemented]"
	OmittedText             = "[omitted for brevity]"
	TruncatedText           = "[File content truncated due to size limitations]"
	ReadErrorFormat         = "[Error reading file: %v]"
	RecursiveLinkText       = "[recursive link omitted]"
	SectionSeparator        = "---"
	ContentFence            = "```"
	ConfirmationFormat      = "Project structure has been written to %s\n"
	ApplicationName         = "projsnap"
	HiddenEntryPrefix       = "."
	IgnoreCommentPrefix     = "#"
	RelativePathLabelSuffix = ":"
)

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
const LoggerInitializationFailedMessageFormat = "initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes the fatal log line emitted by main.
const ApplicationExecutionFailedMessage = "projsnap execution failed"
