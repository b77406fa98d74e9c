package commands

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

const logMessageFileReadFailed = "failed to read file"

var errInvalidUTF8 = errors.New("content is not valid UTF-8 text")

// inspectFile applies the content-inclusion policy. Precedence: empty, ignored, oversized,
// then a full read. Oversized and ignored files are never opened.
//
// #nosec G304
func (builder *SnapshotBuilder) inspectFile(filePath string, fileInfo os.FileInfo, ignored bool) types.FileInspection {
	switch {
	case fileInfo.Size() == 0:
		return types.FileInspection{Kind: types.InspectionEmpty}
	case ignored:
		return types.FileInspection{Kind: types.InspectionOmitted}
	case fileInfo.Size() > builder.Settings.MaxFileSize:
		return types.FileInspection{Kind: types.InspectionTruncated}
	}

	fileBytes, readError := os.ReadFile(filePath)
	if readError == nil && !utf8.Valid(fileBytes) {
		readError = fmt.Errorf("%s: %w", filePath, errInvalidUTF8)
	}
	if readError != nil {
		builder.Logger.Warn(logMessageFileReadFailed, zap.String(logFieldPath, filePath), zap.Error(readError))
		return types.FileInspection{Kind: types.InspectionFailed, Err: readError}
	}
	return types.FileInspection{Kind: types.InspectionContent, Lines: utils.SplitContentLines(string(fileBytes))}
}
