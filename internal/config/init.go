package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/projsnap/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultTokenModel  = "gpt-4o"
	yamlIndentSpaces   = 2
	configurationPerms = 0o600
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultConfiguration expresses DefaultSettings as a fully populated configuration file.
func DefaultConfiguration() ApplicationConfiguration {
	settings := DefaultSettings()
	maxFileSize := settings.MaxFileSize
	hideHidden := settings.HideHidden
	tokensEnabled := false
	clipboardEnabled := false
	return ApplicationConfiguration{
		Snapshot: SnapshotConfiguration{
			Output:      settings.OutputPath,
			MaxFileSize: &maxFileSize,
			HideHidden:  &hideHidden,
			Indent:      settings.IndentUnit,
			Arrow:       settings.Arrow,
		},
		Files: FileNameConfiguration{
			Ignore: settings.IgnoreFileName,
			Header: settings.HeaderFileName,
			Footer: settings.FooterFileName,
		},
		Markers: MarkerConfiguration{
			Title:         settings.Title,
			Empty:         settings.EmptyFileText,
			Omitted:       settings.OmittedText,
			Truncated:     settings.TruncatedText,
			ReadError:     settings.ReadErrorFormat,
			RecursiveLink: settings.RecursiveText,
		},
		Tokens: TokenConfiguration{
			Enabled: &tokensEnabled,
			Model:   defaultTokenModel,
		},
		Clipboard: &clipboardEnabled,
	}
}

// MarshalConfiguration renders configuration as YAML.
func MarshalConfiguration(configuration ApplicationConfiguration) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentSpaces)
	if err := encoder.Encode(configuration); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return buffer.Bytes(), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	content, marshalErr := MarshalConfiguration(DefaultConfiguration())
	if marshalErr != nil {
		return "", marshalErr
	}
	if err := os.WriteFile(destinationPath, content, configurationPerms); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
