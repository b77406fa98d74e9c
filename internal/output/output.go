// Package output assembles a collected snapshot into the final text document.
package output

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

const (
	newline = "\n"

	errorCreateOutputFormat = "creating output file %s: %w"
	errorWriteOutputFormat  = "writing output file %s: %w"
	errorCloseOutputFormat  = "closing output file %s: %w"
	errorRenderFormat       = "rendering snapshot: %w"
)

// WriteSnapshot writes the document in a single sequential pass:
// optional header, title, structure lines, separator, content lines, optional footer.
func WriteSnapshot(writer io.Writer, snapshot *types.Snapshot, title string) error {
	bufferedWriter := bufio.NewWriter(writer)

	if snapshot.Header != "" {
		bufferedWriter.WriteString(snapshot.Header + newline + newline + utils.SectionSeparator + newline + newline)
	}
	bufferedWriter.WriteString(title + newline + newline)
	for _, structureLine := range snapshot.StructureLines {
		bufferedWriter.WriteString(structureLine + newline)
	}
	bufferedWriter.WriteString(newline + utils.SectionSeparator + newline + newline)
	for _, contentLine := range snapshot.ContentLines {
		bufferedWriter.WriteString(contentLine + newline)
	}
	if snapshot.Footer != "" {
		bufferedWriter.WriteString(snapshot.Footer + newline)
	}

	// bufio.Writer keeps the first write error and reports it from Flush.
	return bufferedWriter.Flush()
}

// RenderSnapshot returns the document as a string.
func RenderSnapshot(snapshot *types.Snapshot, title string) (string, error) {
	var buffer bytes.Buffer
	if writeError := WriteSnapshot(&buffer, snapshot, title); writeError != nil {
		return "", fmt.Errorf(errorRenderFormat, writeError)
	}
	return buffer.String(), nil
}

// WriteSnapshotFile creates or truncates outputPath and writes the document to it.
// A failure part way through leaves a partial file.
func WriteSnapshotFile(outputPath string, snapshot *types.Snapshot, title string) (err error) {
	fileHandle, createError := os.Create(outputPath)
	if createError != nil {
		return fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
	}()

	if writeError := WriteSnapshot(fileHandle, snapshot, title); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
	}
	return nil
}
