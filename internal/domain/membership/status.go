package membership

import (
	"fmt"
	"strings"

	"github.com/mediaassoc/backend/internal/domain/shared"
)

// MemberStatus is the review state of a membership application
type MemberStatus string

const (
	MemberStatusPendingReview MemberStatus = "Pending Review"
	MemberStatusUnderReview   MemberStatus = "Under Review"
	MemberStatusApproved      MemberStatus = "Approved"
	MemberStatusRejected      MemberStatus = "Rejected"
)

// memberTransitions lists the legal targets for each member status.
// Reviewers may move an application freely between the four states,
// including re-approving a rejected application and re-saving the same state.
var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusPendingReview: {MemberStatusPendingReview, MemberStatusUnderReview, MemberStatusApproved, MemberStatusRejected},
	MemberStatusUnderReview:   {MemberStatusPendingReview, MemberStatusUnderReview, MemberStatusApproved, MemberStatusRejected},
	MemberStatusApproved:      {MemberStatusUnderReview, MemberStatusApproved, MemberStatusRejected},
	MemberStatusRejected:      {MemberStatusUnderReview, MemberStatusApproved, MemberStatusRejected},
}

// AllMemberStatuses returns the closed set of member statuses
func AllMemberStatuses() []MemberStatus {
	return []MemberStatus{
		MemberStatusPendingReview,
		MemberStatusUnderReview,
		MemberStatusApproved,
		MemberStatusRejected,
	}
}

// IsValid reports whether s belongs to the closed status set
func (s MemberStatus) IsValid() bool {
	_, ok := memberTransitions[s]
	return ok
}

// CanTransitionTo reports whether a member in status s may be moved to target
func (s MemberStatus) CanTransitionTo(target MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TriggersArchival reports whether reaching s projects the member into the ledger
func (s MemberStatus) TriggersArchival() bool {
	return s == MemberStatusApproved
}

// ParseMemberStatus matches raw against the closed status set, ignoring
// surrounding whitespace and letter case.
func ParseMemberStatus(raw string) (MemberStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range AllMemberStatuses() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", shared.InvalidInput(fmt.Sprintf("invalid member status %q", raw))
}

// RenewalStatus is the state of a membership renewal
type RenewalStatus string

const (
	RenewalStatusActive    RenewalStatus = "Active"
	RenewalStatusPending   RenewalStatus = "Pending"
	RenewalStatusExpired   RenewalStatus = "Expired"
	RenewalStatusCancelled RenewalStatus = "Cancelled"
)

// Cancelled renewals are terminal except for reactivation by an admin.
var renewalTransitions = map[RenewalStatus][]RenewalStatus{
	RenewalStatusActive:    {RenewalStatusActive, RenewalStatusPending, RenewalStatusExpired, RenewalStatusCancelled},
	RenewalStatusPending:   {RenewalStatusActive, RenewalStatusPending, RenewalStatusExpired, RenewalStatusCancelled},
	RenewalStatusExpired:   {RenewalStatusActive, RenewalStatusPending, RenewalStatusExpired, RenewalStatusCancelled},
	RenewalStatusCancelled: {RenewalStatusActive, RenewalStatusCancelled},
}

// AllRenewalStatuses returns the closed set of renewal statuses
func AllRenewalStatuses() []RenewalStatus {
	return []RenewalStatus{
		RenewalStatusActive,
		RenewalStatusPending,
		RenewalStatusExpired,
		RenewalStatusCancelled,
	}
}

// IsValid reports whether s belongs to the closed status set
func (s RenewalStatus) IsValid() bool {
	_, ok := renewalTransitions[s]
	return ok
}

// CanTransitionTo reports whether a renewal in status s may be moved to target
func (s RenewalStatus) CanTransitionTo(target RenewalStatus) bool {
	for _, allowed := range renewalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TriggersArchival reports whether reaching s projects the renewal into the ledger
func (s RenewalStatus) TriggersArchival() bool {
	return s == RenewalStatusActive
}

// ParseRenewalStatus matches raw against the closed status set, ignoring
// surrounding whitespace and letter case.
func ParseRenewalStatus(raw string) (RenewalStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range AllRenewalStatuses() {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", shared.InvalidInput(fmt.Sprintf("invalid renewal status %q", raw))
}
