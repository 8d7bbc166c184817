package lifecycle

import (
	"strings"
	"time"

	"github.com/ukydev/rto-console/internal/models"
)

// Assessment is the display view of one record.
type Assessment struct {
	Record          models.DocumentRecord `json:"record"`
	Status          Status                `json:"status"`
	DaysUntilExpiry *int                  `json:"days_until_expiry,omitempty"`
	OfferRenewal    bool                  `json:"offer_renewal"`
}

// ShouldOfferRenewal reports whether record should expose a renew action.
// siblings are the records of the same vehicle, record included; records of
// another type or vehicle are ignored.
//
// Types that track renewal only look at the record itself. For the others an
// expiring record qualifies inside the tighter RenewalEligibleDays window,
// and an expired one qualifies only when the vehicle has no current
// replacement and it is the latest expired record.
func ShouldOfferRenewal(record models.DocumentRecord, siblings []models.DocumentRecord, now time.Time, policy Policy) bool {
	days, ok := DaysUntilExpiry(record.ValidTo, now)
	if !ok {
		return false
	}
	status := statusFor(days, policy.ExpiringSoonDays)

	if policy.TracksRenewal {
		return !record.IsRenewed && (status == StatusExpired || status == StatusExpiringSoon)
	}

	switch status {
	case StatusExpiringSoon:
		return days <= policy.RenewalEligibleDays
	case StatusExpired:
		related := sameDocument(record, siblings)
		if hasCurrent(related, now, policy) {
			return false
		}
		latest, found := LatestExpired(related, now)
		return found && latest.ID == record.ID
	default:
		return false
	}
}

func sameDocument(record models.DocumentRecord, siblings []models.DocumentRecord) []models.DocumentRecord {
	key := vehicleKey(record.VehicleNumber)
	out := make([]models.DocumentRecord, 0, len(siblings))
	for _, s := range siblings {
		if s.Type == record.Type && vehicleKey(s.VehicleNumber) == key {
			out = append(out, s)
		}
	}
	return out
}

func hasCurrent(records []models.DocumentRecord, now time.Time, policy Policy) bool {
	for _, r := range records {
		switch ClassifyStatus(r.ValidTo, now, policy.ExpiringSoonDays) {
		case StatusActive, StatusExpiringSoon:
			return true
		}
	}
	return false
}

// expiry pairs a record with its parsed validTo.
type expiry struct {
	record models.DocumentRecord
	at     time.Time
}

// later picks the more recent of two expired records. On equal validTo the
// record created later wins, then the greater id; the result never depends
// on slice order.
func later(a, b expiry) expiry {
	switch {
	case !a.at.Equal(b.at):
		if b.at.After(a.at) {
			return b
		}
		return a
	case !a.record.CreatedAt.Equal(b.record.CreatedAt):
		if b.record.CreatedAt.After(a.record.CreatedAt) {
			return b
		}
		return a
	case b.record.ID.Hex() > a.record.ID.Hex():
		return b
	default:
		return a
	}
}

// LatestExpired returns the expired record with the greatest validTo.
// Records whose validTo does not parse never win.
func LatestExpired(records []models.DocumentRecord, now time.Time) (models.DocumentRecord, bool) {
	expired := filterMap(records, func(r models.DocumentRecord) (expiry, bool) {
		at, ok := ParseDate(r.ValidTo)
		if !ok || daysBetween(now, at) >= 0 {
			return expiry{}, false
		}
		return expiry{record: r, at: at}, true
	})
	if len(expired) == 0 {
		return models.DocumentRecord{}, false
	}
	return reduce(expired[1:], expired[0], later).record, true
}

func filterMap[T, U any](xs []T, f func(T) (U, bool)) []U {
	out := make([]U, 0, len(xs))
	for _, x := range xs {
		if u, ok := f(x); ok {
			out = append(out, u)
		}
	}
	return out
}

func reduce[T, A any](xs []T, acc A, f func(A, T) A) A {
	for _, x := range xs {
		acc = f(acc, x)
	}
	return acc
}

// GroupByVehicle buckets records by normalized vehicle number and type.
func GroupByVehicle(records []models.DocumentRecord) map[string][]models.DocumentRecord {
	groups := make(map[string][]models.DocumentRecord)
	for _, r := range records {
		k := groupKey(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// Evaluate assesses every record against its siblings. The result follows
// the order of records.
func Evaluate(records []models.DocumentRecord, now time.Time, policies Policies) []Assessment {
	groups := GroupByVehicle(records)
	out := make([]Assessment, 0, len(records))
	for _, r := range records {
		policy := policies.For(r.Type)
		a := Assessment{
			Record:       r,
			Status:       ClassifyStatus(r.ValidTo, now, policy.ExpiringSoonDays),
			OfferRenewal: ShouldOfferRenewal(r, groups[groupKey(r)], now, policy),
		}
		if days, ok := DaysUntilExpiry(r.ValidTo, now); ok {
			a.DaysUntilExpiry = &days
		}
		out = append(out, a)
	}
	return out
}

func groupKey(r models.DocumentRecord) string {
	return vehicleKey(r.VehicleNumber) + "/" + string(r.Type)
}

func vehicleKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
