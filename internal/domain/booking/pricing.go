package booking

import (
	"math/big"
	"strconv"
	"time"
)

// PlatformFeeRate is the marketplace share of every booking total.
const PlatformFeeRate = 0.05

// DurationHours is the unrounded length of [start, end) in hours.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// ComputePricing derives the financial terms of a booking. A supplied total
// overrides rate × duration and is kept as given. Amounts are worked in exact
// decimals and rounded half up to cents, so 0.70 carries a 0.04 fee.
func ComputePricing(hourlyRate float64, start, end time.Time, suppliedTotal *float64) (Pricing, error) {
	if hourlyRate <= 0 {
		return Pricing{}, &ValidationError{Field: "hourly_rate", Message: "Hourly rate must be positive"}
	}

	hours := big.NewRat(end.Sub(start).Nanoseconds(), int64(time.Hour))
	totalCents := roundCents(new(big.Rat).Mul(decimal(hourlyRate), hours))
	exact := new(big.Rat).SetFrac64(totalCents, 100)
	total := cents(totalCents)
	if suppliedTotal != nil {
		total = *suppliedTotal
		exact = decimal(total)
	}
	if total <= 0 {
		return Pricing{}, &ValidationError{Field: "total_amount", Message: "Total amount must be positive"}
	}

	feeCents := roundCents(new(big.Rat).Mul(exact, decimal(PlatformFeeRate)))
	fee := new(big.Rat).SetFrac64(feeCents, 100)
	return Pricing{
		HourlyRate:    hourlyRate,
		TotalAmount:   total,
		PlatformFee:   cents(feeCents),
		OwnerEarnings: cents(roundCents(new(big.Rat).Sub(exact, fee))),
	}, nil
}

// decimal is the shortest decimal that round-trips v, as an exact rational.
// 0.7 becomes 7/10 rather than the binary value just below it.
func decimal(v float64) *big.Rat {
	r, _ := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	return r
}

// roundCents rounds r to whole cents, half away from zero.
func roundCents(r *big.Rat) int64 {
	x := new(big.Rat).Mul(r, big.NewRat(100, 1))
	half := big.NewRat(1, 2)
	if x.Sign() < 0 {
		x.Sub(x, half)
	} else {
		x.Add(x, half)
	}
	return new(big.Int).Quo(x.Num(), x.Denom()).Int64()
}

func cents(c int64) float64 {
	return float64(c) / 100
}
