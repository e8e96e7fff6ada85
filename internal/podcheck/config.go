package podcheck

import (
	"time"

	"github.com/okian/podsmith/internal/domain/report"
)

// Config holds configuration for a property check run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Rosters    int           // Number of rosters to generate
	MinSize    int           // Smallest roster
	MaxSize    int           // Largest roster
	GroupRate  float64       // Share of participants placed in a group
	Tolerance  string        // exact, lenient or super_lenient
	Mode       string        // balanced or avoid_five
	Scale      string        // numeric or bracket
	Seed       uint64        // Roster generator seed
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for rosters
	LogFile    string        // Log file for check output
	Verbose    bool          // Enable verbose logging
}

// Participant is one entry of a preview request.
type Participant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tiers   []string `json:"tiers"`
	GroupID string   `json:"group_id,omitempty"`
}

// Roster is the body of POST /pods/preview.
type Roster struct {
	RosterID     string        `json:"-"`
	Tolerance    string        `json:"tolerance,omitempty"`
	Mode         string        `json:"mode,omitempty"`
	Scale        string        `json:"scale,omitempty"`
	Participants []Participant `json:"participants"`
}

// Outcome pairs a submitted roster with what the service returned.
type Outcome struct {
	Roster   Roster
	Status   int
	Report   *report.Report
	Code     string // error code on non-200 responses
	Err      error  // transport failure
	Duration time.Duration
}

// Violation is one broken property in one outcome.
type Violation struct {
	RosterID string `json:"roster_id"`
	Property string `json:"property"`
	Detail   string `json:"detail"`
}

// Stats holds run statistics.
type Stats struct {
	RostersGenerated int
	RostersSubmitted int
	RostersAccepted  int
	RostersRejected  int
	RostersFailed    int
	PodsChecked      int
	Participants     int
	Assigned         int
	Violations       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
