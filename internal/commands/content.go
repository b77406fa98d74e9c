package commands

import (
	"fmt"

	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

// appendContentBlock appends one framed block: the label line and a blank line, the body,
// then a blank line, the separator and a blank line.
func (builder *SnapshotBuilder) appendContentBlock(snapshot *types.Snapshot, relativeFilePath string, inspection types.FileInspection) {
	blockLines := []string{relativeFilePath + utils.RelativePathLabelSuffix, utils.EmptyString}
	blockLines = append(blockLines, builder.renderInspectionBody(inspection)...)
	blockLines = append(blockLines, utils.EmptyString, utils.SectionSeparator, utils.EmptyString)
	snapshot.ContentLines = append(snapshot.ContentLines, blockLines...)
}

func (builder *SnapshotBuilder) renderInspectionBody(inspection types.FileInspection) []string {
	switch inspection.Kind {
	case types.InspectionEmpty:
		return []string{builder.Settings.EmptyFileText}
	case types.InspectionOmitted:
		return []string{builder.Settings.OmittedText}
	case types.InspectionTruncated:
		return []string{builder.Settings.TruncatedText}
	case types.InspectionFailed:
		return []string{fmt.Sprintf(builder.Settings.ReadErrorFormat, inspection.Err)}
	default:
		bodyLines := make([]string, 0, len(inspection.Lines)+2)
		bodyLines = append(bodyLines, utils.ContentFence)
		bodyLines = append(bodyLines, inspection.Lines...)
		return append(bodyLines, utils.ContentFence)
	}
}
