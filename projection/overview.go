// Package projection builds derived read-only views from warehouse
// primitives. Projections hold no state of their own and are recomputed
// on demand, never persisted.
package projection

import (
	"cmp"
	"slices"

	"chat-warehouse/domain"
	"chat-warehouse/warehouse"
)

// ContactSummary pairs a chat counterpart with the most recent message
// exchanged with it. The presentation layer renders one per contact.
type ContactSummary struct {
	Contact domain.Contact
	Latest  domain.Message
}

// Overview computes the latest message per contact for u: direct
// messages are grouped by the other endpoint, group messages by the
// target group u is a member of. Most recent contact first; ties break
// on contact name so the result is deterministic.
func Overview(w *warehouse.Warehouse, u domain.User) []ContactSummary {
	self := u.Contact()
	memberships := make(map[string]struct{})
	for _, g := range w.GetGroupsOfUser(u) {
		memberships[g.Name] = struct{}{}
	}

	latest := make(map[domain.Contact]domain.Message)
	for _, m := range w.Messages() {
		c, ok := counterpart(m, self, memberships)
		if !ok {
			continue
		}
		if prev, seen := latest[c]; !seen || prev.Before(m) {
			latest[c] = m
		}
	}

	summaries := make([]ContactSummary, 0, len(latest))
	for c, m := range latest {
		summaries = append(summaries, ContactSummary{Contact: c, Latest: m})
	}
	slices.SortStableFunc(summaries, func(a, b ContactSummary) int {
		if byTime := cmp.Compare(b.Latest.SortKey(), a.Latest.SortKey()); byTime != 0 {
			return byTime
		}
		return cmp.Compare(a.Contact.Name, b.Contact.Name)
	})
	return summaries
}

// counterpart resolves which contact a message belongs to, from u's
// point of view. Messages not involving u report ok=false.
func counterpart(m domain.Message, self domain.Contact, memberships map[string]struct{}) (domain.Contact, bool) {
	if m.Target.Kind == domain.KindGroup {
		_, member := memberships[m.Target.Name]
		return m.Target, member
	}
	switch {
	case m.Sender.Equal(self):
		return m.Target, true
	case m.Target.Equal(self):
		return m.Sender, true
	default:
		return domain.Contact{}, false
	}
}
