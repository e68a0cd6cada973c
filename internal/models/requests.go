package models

// SubmitAssessmentRequest is the payload for a self-reported check-in.
// Timestamps are always engine-assigned, so none is accepted here.
type SubmitAssessmentRequest struct {
	Score        float64            `json:"score"`
	Context      string             `json:"context"`
	RawResponses map[string]float64 `json:"raw_responses"`
}

// SubmitInterventionRequest is the payload for a completed calming-tool session.
type SubmitInterventionRequest struct {
	Tool            string   `json:"tool"`
	DurationSeconds float64  `json:"duration_seconds"`
	Effectiveness   *float64 `json:"effectiveness"`
}

// SubmitBiometricRequest is the payload for an instrumented capture.
type SubmitBiometricRequest struct {
	Source  string             `json:"source"`
	Payload map[string]float64 `json:"payload"`
}

// UpdatePreferencesRequest is the payload for preference changes. An absent
// reminder_hour keeps the stored value; an explicit null clears it.
type UpdatePreferencesRequest struct {
	ReminderHour   NullableInt `json:"reminder_hour"`
	PreferredTools []string    `json:"preferred_tools"`
}
