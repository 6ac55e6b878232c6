package models

import (
	"errors"
	"fmt"
	"strings"
)

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDENTE"
	StatusConfirmed AppointmentStatus = "CONFIRMADO"
	StatusCompleted AppointmentStatus = "CONCLUIDO"
	StatusCancelled AppointmentStatus = "CANCELADO"
)

var (
	// ErrInvalidStatus is returned for a status outside the fixed enumeration
	ErrInvalidStatus = errors.New("invalid appointment status")
	// ErrIllegalTransition is returned when the active policy forbids a move
	ErrIllegalTransition = errors.New("illegal status transition")
)

var statusAliases = map[string]AppointmentStatus{
	"PENDENTE":   StatusPending,
	"PENDING":    StatusPending,
	"CONFIRMADO": StatusConfirmed,
	"CONFIRMED":  StatusConfirmed,
	"CONCLUIDO":  StatusCompleted,
	"COMPLETED":  StatusCompleted,
	"CANCELADO":  StatusCancelled,
	"CANCELLED":  StatusCancelled,
	"CANCELED":   StatusCancelled,
}

// ParseAppointmentStatus normalizes a wire status, accepting English aliases
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status, ok := statusAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Terminal reports whether no further transition leaves s under the strict policy
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TransitionPolicy selects how the Lifecycle treats the transition graph
type TransitionPolicy int

const (
	// PermissiveTransitions applies any recognized status from any status
	PermissiveTransitions TransitionPolicy = iota
	// StrictTransitions enforces PENDENTE -> CONFIRMADO -> CONCLUIDO with
	// CANCELADO reachable from PENDENTE or CONFIRMADO
	StrictTransitions
)

// Actor identifies who is driving a transition relative to the appointment
type Actor int

const (
	ActorClient Actor = iota + 1
	ActorTechnician
	ActorAdmin
)

var strictGraph = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Lifecycle validates and applies appointment status transitions
type Lifecycle struct {
	policy TransitionPolicy
}

// NewLifecycle returns a Lifecycle enforcing policy
func NewLifecycle(policy TransitionPolicy) *Lifecycle {
	return &Lifecycle{policy: policy}
}

// Initial is the status every new appointment starts in
func (l *Lifecycle) Initial() AppointmentStatus {
	return StatusPending
}

// Allowed reports whether actor may move an appointment from one status to another.
// Setting the current status again is always allowed.
func (l *Lifecycle) Allowed(from, to AppointmentStatus, actor Actor) bool {
	if from == to {
		return true
	}
	if l.policy == PermissiveTransitions {
		return true
	}
	if (to == StatusConfirmed || to == StatusCompleted) && actor == ActorClient {
		return false
	}
	for _, next := range strictGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves a to the requested status or reports why it cannot.
// The caller persists the result.
func (l *Lifecycle) Transition(a *Appointment, requested string, actor Actor) error {
	to, err := ParseAppointmentStatus(requested)
	if err != nil {
		return err
	}
	if !l.Allowed(a.Status, to, actor) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.Status, to)
	}
	a.Status = to
	return nil
}
