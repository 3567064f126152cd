package models

import "fmt"

// CampaignStatus is the closed lifecycle of a newsletter issue.
type CampaignStatus string

const (
	CampaignDraft    CampaignStatus = "draft"
	CampaignInReview CampaignStatus = "in_review"
	CampaignApproved CampaignStatus = "approved"
	CampaignSent     CampaignStatus = "sent"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:    {CampaignInReview},
	CampaignInReview: {CampaignApproved, CampaignDraft},
	CampaignApproved: {CampaignSent, CampaignInReview},
	CampaignSent:     {},
}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	_, ok := campaignTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed.
func (s CampaignStatus) CanTransition(next CampaignStatus) bool {
	for _, t := range campaignTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Transition validates and returns the next status, or an error naming the
// rejected move.
func (s CampaignStatus) Transition(next CampaignStatus) (CampaignStatus, error) {
	if !next.Valid() {
		return s, fmt.Errorf("unknown campaign status %q", next)
	}
	if !s.CanTransition(next) {
		return s, fmt.Errorf("campaign status %q cannot move to %q", s, next)
	}
	return next, nil
}

// AdStatus is the closed lifecycle of an advertisement.
type AdStatus string

const (
	AdPending  AdStatus = "pending"
	AdApproved AdStatus = "approved"
	AdRejected AdStatus = "rejected"
	AdActive   AdStatus = "active"
)

var adTransitions = map[AdStatus][]AdStatus{
	AdPending:  {AdApproved, AdRejected},
	AdApproved: {AdActive, AdRejected},
	AdRejected: {},
	AdActive:   {},
}

// Valid reports whether s is a known ad status.
func (s AdStatus) Valid() bool {
	_, ok := adTransitions[s]
	return ok
}

// Transition validates and returns the next status, or an error naming the
// rejected move.
func (s AdStatus) Transition(next AdStatus) (AdStatus, error) {
	if !next.Valid() {
		return s, fmt.Errorf("unknown ad status %q", next)
	}
	for _, t := range adTransitions[s] {
		if t == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("ad status %q cannot move to %q", s, next)
}
