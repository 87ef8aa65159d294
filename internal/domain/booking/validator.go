package booking

import (
	"context"
	"strings"
	"time"

	"chargeshare/internal/domain/charger"
)

// Draft is a fully assembled reservation request awaiting validation.
type Draft struct {
	ChargerID   string
	UserID      string
	OwnerID     string
	StartTime   time.Time
	EndTime     time.Time
	HourlyRate  float64
	TotalAmount *float64

	// Charger is the loaded listing; nil when ChargerID is empty.
	Charger *charger.Charger
	Now     time.Time
}

// Rule is one named step of the validation chain.
type Rule struct {
	Name  string
	Check func(ctx context.Context, d *Draft) error
}

// Validator runs its rules in order and stops at the first failure.
type Validator struct {
	rules []Rule
}

func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// DefaultRules is the creation chain: references, start in the future, end
// after start, positive amounts, charger availability, no conflicts.
func DefaultRules(availability charger.Availability, conflicts ConflictFinder) []Rule {
	return []Rule{
		{Name: "references", Check: checkReferences},
		{Name: "start_in_future", Check: checkStartInFuture},
		{Name: "end_after_start", Check: checkEndAfterStart},
		{Name: "positive_amounts", Check: checkPositiveAmounts},
		{Name: "charger_available", Check: checkAvailable(availability)},
		{Name: "no_conflicts", Check: checkNoConflicts(conflicts)},
	}
}

func (v *Validator) Validate(ctx context.Context, d *Draft) error {
	for _, r := range v.rules {
		if err := r.Check(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) RuleNames() []string {
	names := make([]string, 0, len(v.rules))
	for _, r := range v.rules {
		names = append(names, r.Name)
	}
	return names
}

func checkReferences(_ context.Context, d *Draft) error {
	refs := []struct{ field, name, value string }{
		{"charger_id", "charger", d.ChargerID},
		{"user_id", "user", d.UserID},
		{"owner_id", "owner", d.OwnerID},
	}
	for _, r := range refs {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.name + " reference is required"}
		}
	}
	return nil
}

func checkStartInFuture(_ context.Context, d *Draft) error {
	if !d.StartTime.After(d.Now) {
		return &ValidationError{Field: "start_time", Message: "Start time must be in the future"}
	}
	return nil
}

func checkEndAfterStart(_ context.Context, d *Draft) error {
	if !d.EndTime.After(d.StartTime) {
		return &ValidationError{Field: "end_time", Message: "End time must be after start time"}
	}
	return nil
}

func checkPositiveAmounts(_ context.Context, d *Draft) error {
	if d.HourlyRate <= 0 {
		return &ValidationError{Field: "hourly_rate", Message: "Hourly rate must be positive"}
	}
	if d.TotalAmount != nil && *d.TotalAmount <= 0 {
		return &ValidationError{Field: "total_amount", Message: "Total amount must be positive"}
	}
	return nil
}

func checkAvailable(availability charger.Availability) func(context.Context, *Draft) error {
	return func(_ context.Context, d *Draft) error {
		if d.Charger == nil {
			return &AvailabilityError{Reason: "charger is not listed"}
		}
		if !d.Charger.IsBookable() {
			return &AvailabilityError{Reason: "charger is not approved for booking"}
		}
		if !availability.IsOpenAt(d.Charger.Windows, d.StartTime, d.EndTime) {
			return &AvailabilityError{Reason: "requested time is outside the charger's availability windows"}
		}
		return nil
	}
}

// checkNoConflicts fails fast on a visible conflict. The repository repeats
// the check under the charger lock before writing.
func checkNoConflicts(conflicts ConflictFinder) func(context.Context, *Draft) error {
	return func(ctx context.Context, d *Draft) error {
		found, err := conflicts.FindConflicts(ctx, d.ChargerID, d.StartTime, d.EndTime, "")
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return &ConflictError{ConflictingIDs: bookingIDs(found)}
		}
		return nil
	}
}
