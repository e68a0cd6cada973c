package models

import "fmt"

// Tool identifies a calming technique. It is a closed enumeration: values only
// enter the system through ParseTool, so a typo'd identifier can never be stored.
type Tool string

const (
	ToolBreathing        Tool = "breathing"
	ToolGrounding        Tool = "grounding"
	ToolAffirmations     Tool = "affirmations"
	ToolCanvas           Tool = "canvas"
	ToolMuscleRelaxation Tool = "muscle-relaxation"
	ToolSoundTherapy     Tool = "sound-therapy"
	ToolColorTherapy     Tool = "color-therapy"
	ToolMindfulWalking   Tool = "mindful-walking"
	ToolVisualization    Tool = "visualization"
)

// AllTools lists every tool in its canonical order. The order doubles as the
// deterministic tie-break when two tools rank equally.
var AllTools = []Tool{
	ToolBreathing,
	ToolGrounding,
	ToolAffirmations,
	ToolCanvas,
	ToolMuscleRelaxation,
	ToolSoundTherapy,
	ToolColorTherapy,
	ToolMindfulWalking,
	ToolVisualization,
}

var toolSet = func() map[Tool]int {
	m := make(map[Tool]int, len(AllTools))
	for i, t := range AllTools {
		m[t] = i
	}
	return m
}()

// ParseTool converts a raw identifier into a Tool, rejecting unknown values.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if _, ok := toolSet[t]; !ok {
		return "", fmt.Errorf("unknown tool %q", s)
	}
	return t, nil
}

// Rank returns the tool's position in the canonical ordering. Unknown tools
// (which should not exist past validation) sort last.
func (t Tool) Rank() int {
	if i, ok := toolSet[t]; ok {
		return i
	}
	return len(AllTools)
}

// BiometricSource identifies how a biometric sample was captured.
type BiometricSource string

const (
	SourceCamera    BiometricSource = "camera"
	SourceCameraPPG BiometricSource = "camera_ppg"
	SourceWearable  BiometricSource = "wearable"
	SourceManual    BiometricSource = "manual"
)

// ParseBiometricSource validates a raw capture-source identifier.
func ParseBiometricSource(s string) (BiometricSource, error) {
	switch src := BiometricSource(s); src {
	case SourceCamera, SourceCameraPPG, SourceWearable, SourceManual:
		return src, nil
	default:
		return "", fmt.Errorf("unknown biometric source %q", s)
	}
}
