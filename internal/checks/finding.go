// Package checks inspects the guest and room tables for inconsistencies
// that the automated pipeline cannot repair on its own. Findings are
// reported for staff; nothing here writes to the database.
package checks

import "fmt"

// Level grades how urgent a finding is.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Finding is one inconsistency worth human attention.
type Finding struct {
	Level   Level
	Message string

	// Hint suggests the repair tool or action, when one exists.
	Hint string
}

func (f Finding) String() string {
	if f.Hint != "" {
		return fmt.Sprintf("[%s] %s (%s)", f.Level, f.Message, f.Hint)
	}
	return fmt.Sprintf("[%s] %s", f.Level, f.Message)
}
