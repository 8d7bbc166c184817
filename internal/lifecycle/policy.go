package lifecycle

import "github.com/ukydev/rto-console/internal/models"

// Policy holds the thresholds for one document type.
type Policy struct {
	// ExpiringSoonDays is how close to validTo the badge turns to expiring.
	ExpiringSoonDays int `json:"expiring_soon_days"`
	// RenewalEligibleDays is how close to validTo an unexpired record may be
	// renewed. Only used when TracksRenewal is false.
	RenewalEligibleDays int `json:"renewal_eligible_days"`
	// TracksRenewal is set for types whose records carry is_renewed once a
	// later record supersedes them.
	TracksRenewal bool `json:"tracks_renewal"`
}

// Policies maps document types to their thresholds.
type Policies map[models.DocumentType]Policy

var fallbackPolicy = Policy{ExpiringSoonDays: 30, RenewalEligibleDays: 15}

// DefaultPolicies returns the thresholds the office uses out of the box.
func DefaultPolicies() Policies {
	return Policies{
		models.DocumentPermit:       {ExpiringSoonDays: 30, RenewalEligibleDays: 15},
		models.DocumentFitness:      {ExpiringSoonDays: 30, RenewalEligibleDays: 15},
		models.DocumentInsurance:    {ExpiringSoonDays: 30, RenewalEligibleDays: 15},
		models.DocumentPollution:    {ExpiringSoonDays: 30, RenewalEligibleDays: 15},
		models.DocumentLicense:      {ExpiringSoonDays: 30, RenewalEligibleDays: 30, TracksRenewal: true},
		models.DocumentRegistration: {ExpiringSoonDays: 30, RenewalEligibleDays: 30, TracksRenewal: true},
		models.DocumentTransfer:     {TracksRenewal: true},
	}
}

// For returns the policy of t, or the permit-style default for unknown types.
func (p Policies) For(t models.DocumentType) Policy {
	if policy, ok := p[t]; ok {
		return policy
	}
	return fallbackPolicy
}

// WithOverrides returns a copy where every date-inferred type uses the given
// thresholds. Zero leaves a threshold as it was.
func (p Policies) WithOverrides(expiringSoonDays, renewalEligibleDays int) Policies {
	out := make(Policies, len(p))
	for t, policy := range p {
		if !policy.TracksRenewal {
			if expiringSoonDays > 0 {
				policy.ExpiringSoonDays = expiringSoonDays
			}
			if renewalEligibleDays > 0 {
				policy.RenewalEligibleDays = renewalEligibleDays
			}
		}
		out[t] = policy
	}
	return out
}
