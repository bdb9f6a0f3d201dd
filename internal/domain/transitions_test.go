package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedPairs(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		role Role
	}{
		{name: "provider approves pending", from: StatusPending, to: StatusApproved, role: RoleProvider},
		{name: "provider approves after info", from: StatusInfoRequested, to: StatusApproved, role: RoleProvider},
		{name: "provider requests info", from: StatusPending, to: StatusInfoRequested, role: RoleProvider},
		{name: "provider requests info again", from: StatusInfoRequested, to: StatusInfoRequested, role: RoleProvider},
		{name: "provider declines pending", from: StatusPending, to: StatusDeclined, role: RoleProvider},
		{name: "provider declines after info", from: StatusInfoRequested, to: StatusDeclined, role: RoleProvider},
		{name: "requester schedules approved", from: StatusApproved, to: StatusAwaitingDeposit, role: RoleRequester},
		{name: "ledger confirms deposit", from: StatusAwaitingDeposit, to: StatusConfirmed, role: RoleLedger},
		{name: "provider completes", from: StatusConfirmed, to: StatusCompleted, role: RoleProvider},
		{name: "provider reopens completed", from: StatusCompleted, to: StatusConfirmed, role: RoleProvider},
		{name: "requester cancels pending", from: StatusPending, to: StatusCancelled, role: RoleRequester},
		{name: "provider cancels confirmed", from: StatusConfirmed, to: StatusCancelled, role: RoleProvider},
		{name: "requester cancels awaiting deposit", from: StatusAwaitingDeposit, to: StatusCancelled, role: RoleRequester},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CanTransition(tt.from, tt.to, tt.role))
		})
	}
}

func TestCanTransition_ForbiddenPairs(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		role Role
	}{
		{name: "requester cannot approve own booking", from: StatusPending, to: StatusApproved, role: RoleRequester},
		{name: "requester cannot decline", from: StatusPending, to: StatusDeclined, role: RoleRequester},
		{name: "provider cannot schedule for client", from: StatusApproved, to: StatusAwaitingDeposit, role: RoleProvider},
		{name: "provider cannot confirm deposit", from: StatusAwaitingDeposit, to: StatusConfirmed, role: RoleProvider},
		{name: "requester cannot confirm deposit", from: StatusAwaitingDeposit, to: StatusConfirmed, role: RoleRequester},
		{name: "cannot skip approval", from: StatusPending, to: StatusAwaitingDeposit, role: RoleRequester},
		{name: "cannot skip deposit", from: StatusApproved, to: StatusConfirmed, role: RoleLedger},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, role: RoleRequester},
		{name: "declined is terminal", from: StatusDeclined, to: StatusPending, role: RoleProvider},
		{name: "no cancel from completed", from: StatusCompleted, to: StatusCancelled, role: RoleProvider},
		{name: "ledger cannot cancel", from: StatusConfirmed, to: StatusCancelled, role: RoleLedger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CanTransition(tt.from, tt.to, tt.role))
		})
	}
}

// Полный перебор пар: из терминальных статусов declined и cancelled
// не должно существовать ни одного перехода, а единственный выход
// из completed - reopen в confirmed
func TestTransitionTable_TerminalStatuses(t *testing.T) {
	for _, from := range []BookingStatus{StatusDeclined, StatusCancelled} {
		for _, to := range AllStatuses {
			assert.False(t, TransitionExists(from, to),
				"unexpected transition %s -> %s", from, to)
		}
	}

	for _, to := range AllStatuses {
		if to == StatusConfirmed {
			continue
		}
		assert.False(t, TransitionExists(StatusCompleted, to),
			"unexpected transition completed -> %s", to)
	}
	assert.True(t, TransitionExists(StatusCompleted, StatusConfirmed))
}

// Каждый допустимый переход должен быть разрешен хотя бы одной роли
func TestTransitionTable_EveryEntryHasRole(t *testing.T) {
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if !TransitionExists(from, to) {
				continue
			}
			allowed := false
			for _, role := range AllRoles {
				if CanTransition(from, to, role) {
					allowed = true
					break
				}
			}
			assert.True(t, allowed, "transition %s -> %s has no allowed role", from, to)
		}
	}
}

func TestBooking_StatusHelpers(t *testing.T) {
	b := &Booking{Status: StatusPending}
	assert.True(t, b.IsEditable())
	assert.True(t, b.CanBeCancelled())
	assert.False(t, b.IsTerminal())

	b.Status = StatusInfoRequested
	assert.True(t, b.IsEditable())

	b.Status = StatusApproved
	assert.False(t, b.IsEditable())
	assert.True(t, b.CanBeCancelled())

	b.Status = StatusCompleted
	assert.True(t, b.IsTerminal())
	assert.False(t, b.CanBeCancelled())

	b.Status = StatusCancelled
	assert.True(t, b.IsTerminal())
	assert.False(t, b.CanBeCancelled())
}
