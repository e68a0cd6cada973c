package models

import "time"

// AssessmentRecord is a single self-reported wellbeing check-in.
// Records are immutable once written; there is no update or delete path.
type AssessmentRecord struct {
	ID           string             `json:"id" bson:"_id"`
	UserID       string             `json:"user_id" bson:"userId"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	Score        float64            `json:"score" bson:"score"`
	Context      string             `json:"context" bson:"context"`
	RawResponses map[string]float64 `json:"raw_responses,omitempty" bson:"rawResponses,omitempty"`
}

// InterventionRecord captures a completed (or exited) calming-tool session.
type InterventionRecord struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          string    `json:"user_id" bson:"userId"`
	CreatedAt       time.Time `json:"created_at" bson:"createdAt"`
	Tool            Tool      `json:"tool" bson:"tool"`
	DurationSeconds float64   `json:"duration_seconds" bson:"durationSeconds"`
	Effectiveness   *float64  `json:"effectiveness,omitempty" bson:"effectiveness,omitempty"`
}

// BiometricSample is one instrumented capture; the engine treats the payload
// as a bag of numeric time series keyed by signal name (heartRate, stressIndex, ...).
type BiometricSample struct {
	ID        string             `json:"id" bson:"_id"`
	UserID    string             `json:"user_id" bson:"userId"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	Source    BiometricSource    `json:"source" bson:"source"`
	Payload   map[string]float64 `json:"payload" bson:"payload"`
}

// Preferences holds per-user app settings. Unlike the record kinds above it is
// a single mutable document per user.
type Preferences struct {
	UserID         string    `json:"user_id" bson:"userId"`
	ReminderHour   *int      `json:"reminder_hour,omitempty" bson:"reminderHour,omitempty"`
	PreferredTools []Tool    `json:"preferred_tools,omitempty" bson:"preferredTools,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updatedAt"`
}

// ExportBundle is a read-only dump of everything stored for one user.
type ExportBundle struct {
	ExportedAt    time.Time            `json:"exported_at"`
	Version       string               `json:"version"`
	UserID        string               `json:"user_id"`
	Assessments   []AssessmentRecord   `json:"assessments"`
	Interventions []InterventionRecord `json:"interventions"`
	Biometrics    []BiometricSample    `json:"biometrics"`
	Preferences   *Preferences         `json:"preferences,omitempty"`
}
