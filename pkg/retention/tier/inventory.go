package tier

import (
	"time"

	"mercator-hq/logkeeper/pkg/retention/naming"
	"mercator-hq/logkeeper/pkg/retention/policy"
)

// Item describes one tier member and what the next cycle would do with it.
type Item struct {
	Tier        naming.Tier
	Name        string
	Date        time.Time
	AgeDays     int
	Disposition policy.Disposition
}

// Inventory lists the members of every tier in lifecycle order along with
// the number of foreign entries found in each tier. It has no side effects.
func (m *Manager) Inventory() ([]Item, map[naming.Tier]int, error) {
	var items []Item
	skipped := make(map[naming.Tier]int, len(naming.Tiers))

	for _, t := range naming.Tiers {
		members, n, err := m.scan("inventory", t)
		if err != nil {
			return nil, nil, err
		}
		skipped[t] = n

		for _, e := range members {
			items = append(items, Item{
				Tier:        t,
				Name:        e.name,
				Date:        e.date,
				AgeDays:     e.age,
				Disposition: policy.Decide(t, e.age, m.thresholds),
			})
		}
	}

	return items, skipped, nil
}
