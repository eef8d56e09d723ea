// Package notification models the state machine driving communication with
// the government employment agency about issued approvals.
package notification

import "time"

type Status string

// Persisted values. ERROR is terminal and requires manual intervention;
// PENDING and SHOULD_RETRY are both picked up again by the periodic sweep.
const (
	StatusPending     Status = "notification_pending"
	StatusSuccess     Status = "notification_success"
	StatusError       Status = "notification_error"
	StatusShouldRetry Status = "notification_should_retry"
)

// Endpoint identifies which remote operation was being attempted when a
// definitive error was recorded.
type Endpoint string

const (
	EndpointIdentitySearch Endpoint = "rech_individu"
	EndpointUpdateApproval Endpoint = "maj_pass"
)

// Preliminary-check exit codes, recorded before any remote call is made.
// Remote calls record the raw remote exit code instead (e.g. "S022").
const (
	ExitStartsInFuture   = "STARTS_IN_FUTURE"
	ExitNoJobApplication = "NO_JOB_APPLICATION"
	ExitInvalidSiaeKind  = "INVALID_SIAE_KIND"
	ExitMissingUserData  = "MISSING_USER_DATA"
)

// State is embedded by value in both Approval and PoleEmploiApproval
// (column prefix pe_notification_).
type State struct {
	Status   Status     `gorm:"column:status;size:32;default:notification_pending" json:"status"`
	Time     *time.Time `gorm:"column:time" json:"time,omitempty"`
	Endpoint *Endpoint  `gorm:"column:endpoint;size:32" json:"endpoint,omitempty"`
	ExitCode *string    `gorm:"column:exit_code;size:64" json:"exit_code,omitempty"`
}

func Pending(reason string, at time.Time) State {
	return State{Status: StatusPending, Time: &at, ExitCode: &reason}
}

// Error records a definitive remote failure. The endpoint may be empty when
// the failure was detected before any remote call (unmappable enterprise kind).
func Error(endpoint Endpoint, exitCode string, at time.Time) State {
	st := State{Status: StatusError, Time: &at, ExitCode: &exitCode}
	if endpoint != "" {
		st.Endpoint = &endpoint
	}
	return st
}

func ShouldRetry(at time.Time) State {
	return State{Status: StatusShouldRetry, Time: &at}
}

func Success(at time.Time) State {
	return State{Status: StatusSuccess, Time: &at}
}
