package status

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/fastrepo/internal/changes"
	"github.com/temirov/fastrepo/internal/utils"
)

const (
	projectHeaderPrefixConstant    = "project "
	projectHeaderSuffixConstant    = "/"
	statusLinePrefixConstant       = " "
	statusLineSeparatorConstant    = "\t\t"
	reportLineSeparatorConstant    = "\n"
	stagedColorConstant            = lipgloss.Color("2")
	unstagedColorConstant          = lipgloss.Color("1")
	emptyProjectReportConstant     = ""
	failureReasonSeparatorConstant = ": "
)

// ReportRenderer formats per-project status blocks.
type ReportRenderer struct {
	headerPathStyle lipgloss.Style
	stagedStyle     lipgloss.Style
	unstagedStyle   lipgloss.Style
}

// NewReportRenderer builds styles bound to renderer; a nil renderer emits plain text.
func NewReportRenderer(renderer *lipgloss.Renderer) *ReportRenderer {
	if renderer == nil {
		renderer = utils.NewRenderer(false)
	}
	baseStyle := renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &ReportRenderer{
		headerPathStyle: baseStyle.Bold(true),
		stagedStyle:     baseStyle.Foreground(stagedColorConstant),
		unstagedStyle:   baseStyle.Foreground(unstagedColorConstant),
	}
}

// RenderProject returns the header and one colored line per reportable record,
// or an empty string when nothing in the project qualifies.
func (renderer *ReportRenderer) RenderProject(projectPath string, records []changes.Record) string {
	lines := make([]string, 0, len(records)+1)
	for _, record := range records {
		if !record.Reportable() {
			continue
		}
		flag := changes.Classify(record.Kind)
		lineStyle := renderer.unstagedStyle
		if flag.Staged {
			lineStyle = renderer.stagedStyle
		}
		lines = append(lines, lineStyle.Render(statusLinePrefixConstant+flag.Code+statusLineSeparatorConstant+record.Path))
	}

	if len(lines) == 0 {
		return emptyProjectReportConstant
	}

	header := projectHeaderPrefixConstant + renderer.headerPathStyle.Render(projectPath) + projectHeaderSuffixConstant
	return header + reportLineSeparatorConstant + strings.Join(lines, reportLineSeparatorConstant)
}

// RenderFailure describes a project that could not be probed.
func (renderer *ReportRenderer) RenderFailure(projectPath string, failure error) string {
	header := projectHeaderPrefixConstant + renderer.headerPathStyle.Render(projectPath) + projectHeaderSuffixConstant
	return header + failureReasonSeparatorConstant + renderer.unstagedStyle.Render(failure.Error())
}
