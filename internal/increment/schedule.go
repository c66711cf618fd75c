// Package increment defines bid increment schedules keyed by price band.
//
// A schedule is a list of tiers ordered by the lower bound of their band.
// The step for a current price is taken from the last tier whose band starts
// at or below that price. A tier steps either by a flat amount, by a rate of
// the current price, or by whichever of the two is larger.
package increment

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lot-bidding/internal/money"

	"github.com/shopspring/decimal"
)

var ErrInvalidSchedule = errors.New("invalid increment schedule")

var hundred = decimal.NewFromInt(100)

// Tier is one price band of a schedule. Amounts are minor units.
type Tier struct {
	From   int64
	Amount int64
	Rate   decimal.Decimal
}

func (t Tier) step(current money.Money) (money.Money, error) {
	flat := money.New(t.Amount, current.Currency())
	if t.Rate.IsZero() {
		return flat, nil
	}
	byRate, err := current.MulRate(t.Rate)
	if err != nil {
		return money.Money{}, err
	}
	return money.Max(flat, byRate)
}

// Schedule is an immutable increment table.
type Schedule struct {
	tiers []Tier
}

// Flat returns a single-tier schedule with a constant step.
func Flat(amount int64) Schedule {
	return Schedule{tiers: []Tier{{From: 0, Amount: amount}}}
}

// New validates tiers and builds a Schedule. Tiers may be given in any order.
func New(tiers ...Tier) (Schedule, error) {
	if len(tiers) == 0 {
		return Schedule{}, fmt.Errorf("%w: no tiers", ErrInvalidSchedule)
	}
	sorted := append([]Tier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	if sorted[0].From != 0 {
		return Schedule{}, fmt.Errorf("%w: first tier must start at 0, got %d", ErrInvalidSchedule, sorted[0].From)
	}
	for i, t := range sorted {
		if t.Amount < 0 || t.Rate.IsNegative() {
			return Schedule{}, fmt.Errorf("%w: tier %d has a negative step", ErrInvalidSchedule, i)
		}
		if t.Amount == 0 && t.Rate.IsZero() {
			return Schedule{}, fmt.Errorf("%w: tier %d has no step", ErrInvalidSchedule, i)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if t.From == prev.From {
			return Schedule{}, fmt.Errorf("%w: duplicate band start %d", ErrInvalidSchedule, t.From)
		}
		// Steps must not shrink when crossing into a higher band.
		boundary := money.New(t.From, "")
		prevStep, err := prev.step(boundary)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		nextStep, err := t.step(boundary)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		if nextStep.Minor() < prevStep.Minor() {
			return Schedule{}, fmt.Errorf("%w: step decreases at band %d", ErrInvalidSchedule, t.From)
		}
	}
	return Schedule{tiers: sorted}, nil
}

// IsZero reports whether the schedule has no tiers.
func (s Schedule) IsZero() bool { return len(s.tiers) == 0 }

// For returns the increment that applies on top of the current price.
func (s Schedule) For(current money.Money) (money.Money, error) {
	if s.IsZero() {
		return money.Money{}, fmt.Errorf("%w: no tiers", ErrInvalidSchedule)
	}
	tier := s.tiers[0]
	for _, t := range s.tiers[1:] {
		if current.Minor() < t.From {
			break
		}
		tier = t
	}
	return tier.step(current)
}

// NextMinimum returns current + For(current).
func (s Schedule) NextMinimum(current money.Money) (money.Money, error) {
	step, err := s.For(current)
	if err != nil {
		return money.Money{}, err
	}
	return current.Add(step)
}

// String renders the schedule in the same form Parse accepts.
func (s Schedule) String() string {
	parts := make([]string, 0, len(s.tiers))
	for _, t := range s.tiers {
		var step string
		switch {
		case t.Rate.IsZero():
			step = strconv.FormatInt(t.Amount, 10)
		case t.Amount == 0:
			step = t.Rate.Mul(hundred).String() + "%"
		default:
			step = strconv.FormatInt(t.Amount, 10) + "|" + t.Rate.Mul(hundred).String() + "%"
		}
		parts = append(parts, strconv.FormatInt(t.From, 10)+":"+step)
	}
	return strings.Join(parts, ",")
}

// Parse reads a schedule such as "0:100,100000:500,500000:2.5%".
// Each entry is band-start:step in minor units; a step ending in % is a
// rate of the current price, and "amount|rate%" takes the larger of both.
func Parse(spec string) (Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Schedule{}, fmt.Errorf("%w: empty", ErrInvalidSchedule)
	}
	var tiers []Tier
	for _, entry := range strings.Split(spec, ",") {
		from, step, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return Schedule{}, fmt.Errorf("%w: entry %q", ErrInvalidSchedule, entry)
		}
		start, err := strconv.ParseInt(strings.TrimSpace(from), 10, 64)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: band start %q", ErrInvalidSchedule, from)
		}
		tier := Tier{From: start}
		for _, part := range strings.Split(step, "|") {
			part = strings.TrimSpace(part)
			if pct, isRate := strings.CutSuffix(part, "%"); isRate {
				rate, err := decimal.NewFromString(pct)
				if err != nil {
					return Schedule{}, fmt.Errorf("%w: rate %q", ErrInvalidSchedule, part)
				}
				tier.Rate = rate.Div(hundred)
				continue
			}
			amount, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return Schedule{}, fmt.Errorf("%w: step %q", ErrInvalidSchedule, part)
			}
			tier.Amount = amount
		}
		tiers = append(tiers, tier)
	}
	return New(tiers...)
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
