package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/samber/lo"
)

// Requirement defines an external dependency captionburn relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Resolved commands are reported as absolute paths.
func CheckBinaries(requirements []Requirement) []Status {
	return lo.Map(requirements, func(req Requirement, _ int) Status {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			return status
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			return status
		}
		status.Command = resolved
		status.Available = true
		return status
	})
}

// MissingRequired returns the statuses of required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	return lo.Filter(statuses, func(s Status, _ int) bool {
		return !s.Available && !s.Optional
	})
}

// Names lists the dependency names of the given statuses.
func Names(statuses []Status) []string {
	return lo.Map(statuses, func(s Status, _ int) string { return s.Name })
}
