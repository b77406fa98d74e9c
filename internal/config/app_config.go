package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the on-disk configuration file.
type ApplicationConfiguration struct {
	Snapshot  SnapshotConfiguration `mapstructure:"snapshot" yaml:"snapshot"`
	Files     FileNameConfiguration `mapstructure:"files" yaml:"files"`
	Markers   MarkerConfiguration   `mapstructure:"markers" yaml:"markers"`
	Tokens    TokenConfiguration    `mapstructure:"tokens" yaml:"tokens"`
	Clipboard *bool                 `mapstructure:"clipboard" yaml:"clipboard"`
}

// SnapshotConfiguration controls traversal and layout.
type SnapshotConfiguration struct {
	Root        string `mapstructure:"root" yaml:"root,omitempty"`
	Output      string `mapstructure:"output" yaml:"output"`
	MaxFileSize *int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	HideHidden  *bool  `mapstructure:"hide_hidden" yaml:"hide_hidden"`
	Indent      string `mapstructure:"indent" yaml:"indent"`
	Arrow       string `mapstructure:"arrow" yaml:"arrow"`
}

// FileNameConfiguration names the tool files read from the traversal root.
type FileNameConfiguration struct {
	Ignore string `mapstructure:"ignore" yaml:"ignore"`
	Header string `mapstructure:"header" yaml:"header"`
	Footer string `mapstructure:"footer" yaml:"footer"`
}

// MarkerConfiguration holds the fixed texts written in place of file bodies.
type MarkerConfiguration struct {
	Title         string `mapstructure:"title" yaml:"title"`
	Empty         string `mapstructure:"empty" yaml:"empty"`
	Omitted       string `mapstructure:"omitted" yaml:"omitted"`
	Truncated     string `mapstructure:"truncated" yaml:"truncated"`
	ReadError     string `mapstructure:"read_error" yaml:"read_error"`
	RecursiveLink string `mapstructure:"recursive_link" yaml:"recursive_link"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() types.Settings {
	return types.Settings{
		OutputPath:      utils.DefaultOutputFileName,
		IgnoreFileName:  utils.IgnoreFileName,
		HeaderFileName:  utils.HeaderFileName,
		FooterFileName:  utils.FooterFileName,
		ConfigFileName:  utils.LocalConfigFileName,
		IndentUnit:      utils.DefaultIndentUnit,
		Arrow:           utils.DefaultArrow,
		MaxFileSize:     utils.DefaultMaxFileSize,
		Title:           utils.DefaultTitle,
		EmptyFileText:   utils.EmptyFilePlaceholder,
		OmittedText:     utils.OmittedText,
		TruncatedText:   utils.TruncatedText,
		ReadErrorFormat: utils.ReadErrorFormat,
		RecursiveText:   utils.RecursiveLinkText,
	}
}

// LoadApplicationConfiguration loads configuration from the global and local files.
// Missing files contribute nothing.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Snapshot = result.Snapshot.merge(override.Snapshot)
	result.Files = result.Files.merge(override.Files)
	result.Markers = result.Markers.merge(override.Markers)
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

// ApplyTo overlays every configured value onto settings.
func (config ApplicationConfiguration) ApplyTo(settings types.Settings) types.Settings {
	result := settings
	result.RootDirectory = overrideString(result.RootDirectory, config.Snapshot.Root)
	result.OutputPath = overrideString(result.OutputPath, config.Snapshot.Output)
	if config.Snapshot.MaxFileSize != nil {
		result.MaxFileSize = *config.Snapshot.MaxFileSize
	}
	if config.Snapshot.HideHidden != nil {
		result.HideHidden = *config.Snapshot.HideHidden
	}
	result.IndentUnit = overrideString(result.IndentUnit, config.Snapshot.Indent)
	result.Arrow = overrideString(result.Arrow, config.Snapshot.Arrow)
	result.IgnoreFileName = overrideString(result.IgnoreFileName, config.Files.Ignore)
	result.HeaderFileName = overrideString(result.HeaderFileName, config.Files.Header)
	result.FooterFileName = overrideString(result.FooterFileName, config.Files.Footer)
	result.Title = overrideString(result.Title, config.Markers.Title)
	result.EmptyFileText = overrideString(result.EmptyFileText, config.Markers.Empty)
	result.OmittedText = overrideString(result.OmittedText, config.Markers.Omitted)
	result.TruncatedText = overrideString(result.TruncatedText, config.Markers.Truncated)
	result.ReadErrorFormat = overrideString(result.ReadErrorFormat, config.Markers.ReadError)
	result.RecursiveText = overrideString(result.RecursiveText, config.Markers.RecursiveLink)
	return result
}

func (config SnapshotConfiguration) merge(override SnapshotConfiguration) SnapshotConfiguration {
	result := config
	result.Root = overrideString(result.Root, override.Root)
	result.Output = overrideString(result.Output, override.Output)
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.HideHidden != nil {
		result.HideHidden = cloneBool(override.HideHidden)
	}
	result.Indent = overrideString(result.Indent, override.Indent)
	result.Arrow = overrideString(result.Arrow, override.Arrow)
	return result
}

func (config FileNameConfiguration) merge(override FileNameConfiguration) FileNameConfiguration {
	return FileNameConfiguration{
		Ignore: overrideString(config.Ignore, override.Ignore),
		Header: overrideString(config.Header, override.Header),
		Footer: overrideString(config.Footer, override.Footer),
	}
}

func (config MarkerConfiguration) merge(override MarkerConfiguration) MarkerConfiguration {
	return MarkerConfiguration{
		Title:         overrideString(config.Title, override.Title),
		Empty:         overrideString(config.Empty, override.Empty),
		Omitted:       overrideString(config.Omitted, override.Omitted),
		Truncated:     overrideString(config.Truncated, override.Truncated),
		ReadError:     overrideString(config.ReadError, override.ReadError),
		RecursiveLink: overrideString(config.RecursiveLink, override.RecursiveLink),
	}
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	result.Model = overrideString(result.Model, override.Model)
	return result
}

func overrideString(current, override string) string {
	if override == "" {
		return current
	}
	return override
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
