package entities

import "errors"

// WorkflowStep is the session-level position of a proposal in the builder flow.
//
// Domain notes:
//   - The proposal itself lives with the caller; the service only reports which
//     step a successful (or failed) operation leads to.
//   - Review loops on edits; the SOW editor can return to review.
type WorkflowStep string

const (
	WorkflowStepUpload    WorkflowStep = "upload"
	WorkflowStepAnalyzing WorkflowStep = "analyzing"
	WorkflowStepReview    WorkflowStep = "review"
	WorkflowStepSOWEditor WorkflowStep = "sow-editor"
	WorkflowStepDone      WorkflowStep = "done"
)

// WorkflowEvent drives transitions between steps.
type WorkflowEvent string

const (
	WorkflowEventSubmit            WorkflowEvent = "submit"
	WorkflowEventAnalysisSucceeded WorkflowEvent = "analysis-succeeded"
	WorkflowEventAnalysisFailed    WorkflowEvent = "analysis-failed"
	WorkflowEventEdit              WorkflowEvent = "edit"
	WorkflowEventGenerateSOW       WorkflowEvent = "generate-sow"
	WorkflowEventBackToReview      WorkflowEvent = "back-to-review"
	WorkflowEventSave              WorkflowEvent = "save"
)

var ErrInvalidTransition = errors.New("invalid workflow transition")

var workflowTransitions = map[WorkflowStep]map[WorkflowEvent]WorkflowStep{
	WorkflowStepUpload: {
		WorkflowEventSubmit: WorkflowStepAnalyzing,
	},
	WorkflowStepAnalyzing: {
		WorkflowEventAnalysisSucceeded: WorkflowStepReview,
		WorkflowEventAnalysisFailed:    WorkflowStepUpload,
	},
	WorkflowStepReview: {
		WorkflowEventEdit:        WorkflowStepReview,
		WorkflowEventGenerateSOW: WorkflowStepSOWEditor,
		WorkflowEventSave:        WorkflowStepDone,
	},
	WorkflowStepSOWEditor: {
		WorkflowEventEdit:         WorkflowStepSOWEditor,
		WorkflowEventBackToReview: WorkflowStepReview,
		WorkflowEventSave:         WorkflowStepDone,
	},
}

// NextStep returns the step reached from current on event.
func NextStep(current WorkflowStep, event WorkflowEvent) (WorkflowStep, error) {
	next, ok := workflowTransitions[current][event]
	if !ok {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// CanSubmit reports whether the upload step has the inputs needed to start analysis.
func CanSubmit(clientName string, budget float64) bool {
	return clientName != "" && budget > 0
}
