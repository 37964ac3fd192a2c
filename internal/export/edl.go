package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/bgorzelic/skyforge/internal/selector"
	"github.com/bgorzelic/skyforge/pkg/util"
)

// GenerateEDL builds a CMX 3600 edit decision list from segments in
// timeline order. The record track is laid down back to back; source
// timecodes reference each segment's position in its own file.
func GenerateEDL(segments []selector.Segment, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordOffset := 0.0
	for i, seg := range segments {
		srcIn := secondsToTimecode(seg.StartTime, fps)
		srcOut := secondsToTimecode(seg.EndTime, fps)
		recIn := secondsToTimecode(recordOffset, fps)
		recOut := secondsToTimecode(recordOffset+seg.Duration, fps)

		clipName := fmt.Sprintf("%s seg%03d", util.Stem(seg.SourceFile), seg.SegmentID)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName),
			fmt.Sprintf("* MEDIA PATH:  %s", seg.SourceFile),
		)

		recordOffset += seg.Duration
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secondsToTimecode(seconds float64, fps int) string {
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
