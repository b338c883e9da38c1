package ui

import (
	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
)

// AnalysisStartMsg signals analysis of a file has started
type AnalysisStartMsg struct {
	FilePath string
}

// StageMsg reports progress through one stage of the analysis pipeline
type StageMsg struct {
	Stage    analysis.Stage
	Fraction float64 // completion of the stage, 0.0 to 1.0
}

// AnalysisCompleteMsg signals analysis has finished
type AnalysisCompleteMsg struct {
	Result *analysis.Result
	Error  error
}
