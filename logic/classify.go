package logic

import "elena/residency_alerts/model"

// IsExpired reports whether the card expired today or earlier
func IsExpired(e model.Employee) bool {
	return e.DaysUntilExpiry <= 0
}

// IsUrgentForReport reports whether the card expires within the report
// window (1-30 days). This covers both the urgent and warning display tiers.
func IsUrgentForReport(e model.Employee) bool {
	return e.DaysUntilExpiry > 0 && e.DaysUntilExpiry <= model.WarningDays
}

// IsWarning reports whether the card is in the warning display tier (8-30 days)
func IsWarning(e model.Employee) bool {
	return model.TierOf(e.DaysUntilExpiry) == model.TierWarning
}

// Filter returns the employees matching keep, in input order
func Filter(employees []model.Employee, keep func(model.Employee) bool) []model.Employee {
	var out []model.Employee
	for _, e := range employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// InBucket returns the employees that fall in a report bucket
func InBucket(employees []model.Employee, bucket model.Bucket) []model.Employee {
	switch bucket {
	case model.BucketExpired:
		return Filter(employees, IsExpired)
	case model.BucketUrgentOrWarning:
		return Filter(employees, IsUrgentForReport)
	}
	return nil
}

// GroupByTier splits employees by display tier
func GroupByTier(employees []model.Employee) map[model.Tier][]model.Employee {
	groups := make(map[model.Tier][]model.Employee, len(model.Tiers))
	for _, e := range employees {
		tier := model.TierOf(e.DaysUntilExpiry)
		groups[tier] = append(groups[tier], e)
	}
	return groups
}

// Summarize counts employees for the dashboard cards
func Summarize(employees []model.Employee) model.Summary {
	summary := model.Summary{
		Total:  len(employees),
		ByTier: make(map[model.Tier]int, len(model.Tiers)),
	}
	for _, tier := range model.Tiers {
		summary.ByTier[tier] = 0
	}

	for _, e := range employees {
		summary.ByTier[model.TierOf(e.DaysUntilExpiry)]++
		if IsExpired(e) {
			summary.Expired++
		}
		if IsUrgentForReport(e) {
			summary.Expiring++
		}
	}

	return summary
}
