package models

// SavePlan is the set of row changes that turns a key's stored rows into the
// submitted selection.
type SavePlan struct {
	Insert    []SlotInput
	Delete    []string
	Unchanged int
	Skipped   int
}

// Result converts the plan into counts once it has been applied. created is
// the number of inserts that actually landed.
func (p SavePlan) Result(created int) SaveResult {
	return SaveResult{
		Created:   created,
		Removed:   len(p.Delete),
		Unchanged: p.Unchanged + len(p.Insert) - created,
		Skipped:   p.Skipped,
	}
}

// PlanSave computes a full replace of the unconfirmed selection:
//   - a submitted position with an unconfirmed row is unchanged
//   - a submitted position with a confirmed row is skipped
//   - a submitted position without a row is inserted
//   - an unconfirmed row whose position was not submitted is deleted, booked
//     or not
//
// Confirmed rows are never deleted. Duplicate submissions collapse.
func PlanSave(existing []AvailabilitySlot, submitted []SlotInput) SavePlan {
	byPos := make(map[Position]AvailabilitySlot, len(existing))
	for _, row := range existing {
		byPos[row.Position()] = row
	}

	var plan SavePlan
	wanted := make(map[Position]struct{}, len(submitted))
	for _, in := range submitted {
		pos := in.Position()
		if _, dup := wanted[pos]; dup {
			continue
		}
		wanted[pos] = struct{}{}

		row, ok := byPos[pos]
		switch {
		case !ok:
			plan.Insert = append(plan.Insert, SlotInput{DayOfWeek: in.DayOfWeek, StartHour: in.StartHour, EndHour: in.StartHour + 1})
		case row.IsConfirmed:
			plan.Skipped++
		default:
			plan.Unchanged++
		}
	}

	for _, row := range existing {
		if _, ok := wanted[row.Position()]; ok || row.IsConfirmed {
			continue
		}
		plan.Delete = append(plan.Delete, row.ID)
	}
	return plan
}
