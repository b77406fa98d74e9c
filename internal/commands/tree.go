// Package commands contains the traversal engine that collects a project snapshot.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/projsnap/internal/config"
	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootNotDirectoryFormat is used when the traversal root is not a directory.
	errorRootNotDirectoryFormat = "root %s is not a directory"
	// errorStatRootFormat is used when the traversal root cannot be inspected.
	errorStatRootFormat = "inspecting root %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %w"

	logMessageSkippedEntry     = "skipping entry"
	logMessageIgnoredDirectory = "directory omitted by ignore list"
	logMessageRecursiveLink    = "recursive directory link omitted"
	logFieldPath               = "path"
	logFieldReason             = "reason"
	skipReasonUnreadable       = "type cannot be determined"
	skipReasonIrregular        = "not a regular file or directory"
)

// BuildSnapshot loads the ignore list and optional header and footer from the root in
// settings, then collects the full snapshot.
func BuildSnapshot(settings types.Settings, logger *zap.Logger) (*types.Snapshot, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(settings.RootDirectory)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, settings.RootDirectory, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, absoluteRootPath)
	}
	settings.RootDirectory = absoluteRootPath

	ignorePatterns, ignoreError := config.LoadIgnorePatterns(filepath.Join(absoluteRootPath, settings.IgnoreFileName))
	if ignoreError != nil {
		return nil, ignoreError
	}
	headerText, headerError := config.ReadOptionalText(filepath.Join(absoluteRootPath, settings.HeaderFileName))
	if headerError != nil {
		return nil, headerError
	}
	footerText, footerError := config.ReadOptionalText(filepath.Join(absoluteRootPath, settings.FooterFileName))
	if footerError != nil {
		return nil, footerError
	}

	builder := NewSnapshotBuilder(settings, ignorePatterns, logger)
	snapshot := &types.Snapshot{Header: headerText, Footer: footerText}
	if collectError := builder.Collect(snapshot); collectError != nil {
		return nil, collectError
	}
	return snapshot, nil
}

// Collect walks the builder's root directory and appends to snapshot.
// A directory that cannot be listed aborts the walk.
func (builder *SnapshotBuilder) Collect(snapshot *types.Snapshot) error {
	rootDirectoryPath := filepath.Clean(builder.Settings.RootDirectory)
	return builder.collectDirectory(rootDirectoryPath, 0, []string{resolveRealPath(rootDirectoryPath)}, snapshot)
}

// collectDirectory lists one directory: subdirectories first, then files, each group sorted.
// ancestorRealPaths holds the resolved paths of the directories on the current descent chain.
func (builder *SnapshotBuilder) collectDirectory(currentDirectoryPath string, depth int, ancestorRealPaths []string, snapshot *types.Snapshot) error {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	var directoryNames []string
	fileInfos := make(map[string]os.FileInfo)
	var fileNames []string
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if builder.Settings.HideHidden && utils.IsHiddenName(entryName) {
			continue
		}
		entryPath := filepath.Join(currentDirectoryPath, entryName)
		// os.Stat follows links so a link is classified by its target.
		entryInfo, statError := os.Stat(entryPath)
		if statError != nil {
			builder.Logger.Debug(logMessageSkippedEntry, zap.String(logFieldPath, entryPath), zap.String(logFieldReason, skipReasonUnreadable), zap.Error(statError))
			continue
		}
		switch {
		case entryInfo.IsDir():
			directoryNames = append(directoryNames, entryName)
		case entryInfo.Mode().IsRegular():
			if builder.isReservedFileName(entryName) {
				continue
			}
			fileNames = append(fileNames, entryName)
			fileInfos[entryName] = entryInfo
		default:
			builder.Logger.Debug(logMessageSkippedEntry, zap.String(logFieldPath, entryPath), zap.String(logFieldReason, skipReasonIrregular))
		}
	}
	sort.Strings(directoryNames)
	sort.Strings(fileNames)

	for _, directoryName := range directoryNames {
		directoryPath := filepath.Join(currentDirectoryPath, directoryName)
		relativeDirectoryPath := utils.RelativePathOrSelf(directoryPath, builder.Settings.RootDirectory)
		builder.appendStructureLine(snapshot, depth, directoryName)
		snapshot.DirectoryCount++

		if builder.IgnorePatterns.Matches(relativeDirectoryPath) {
			builder.Logger.Debug(logMessageIgnoredDirectory, zap.String(logFieldPath, relativeDirectoryPath))
			builder.appendStructureLine(snapshot, depth+1, builder.Settings.OmittedText)
			continue
		}
		realDirectoryPath := resolveRealPath(directoryPath)
		if slices.Contains(ancestorRealPaths, realDirectoryPath) {
			builder.Logger.Debug(logMessageRecursiveLink, zap.String(logFieldPath, relativeDirectoryPath))
			builder.appendStructureLine(snapshot, depth+1, builder.Settings.RecursiveText)
			continue
		}
		descentChain := append(ancestorRealPaths[:len(ancestorRealPaths):len(ancestorRealPaths)], realDirectoryPath)
		if collectError := builder.collectDirectory(directoryPath, depth+1, descentChain, snapshot); collectError != nil {
			return collectError
		}
	}

	for _, fileName := range fileNames {
		filePath := filepath.Join(currentDirectoryPath, fileName)
		relativeFilePath := utils.RelativePathOrSelf(filePath, builder.Settings.RootDirectory)
		builder.appendStructureLine(snapshot, depth, fileName)
		snapshot.FileCount++
		inspection := builder.inspectFile(filePath, fileInfos[fileName], builder.IgnorePatterns.Matches(relativeFilePath))
		builder.appendContentBlock(snapshot, relativeFilePath, inspection)
	}
	return nil
}

// appendStructureLine appends "<indent × depth><arrow> <name>".
func (builder *SnapshotBuilder) appendStructureLine(snapshot *types.Snapshot, depth int, name string) {
	structureLine := strings.Repeat(builder.Settings.IndentUnit, depth) + builder.Settings.Arrow + " " + name
	snapshot.StructureLines = append(snapshot.StructureLines, structureLine)
}

func resolveRealPath(path string) string {
	realPath, evalError := filepath.EvalSymlinks(path)
	if evalError != nil {
		return filepath.Clean(path)
	}
	return realPath
}
