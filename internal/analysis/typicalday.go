package analysis

import "hybrid-sizer/internal/dispatch"

// HourOfDayAverage is the mean dispatch for one hour of day across every
// day of the horizon.
type HourOfDayAverage struct {
	HourOfDay   int
	LoadKW      float64
	PVKW        float64
	WindKW      float64
	HydroKW     float64
	ChargeKW    float64
	DischargeKW float64
	SOCKWh      float64
}

// TypicalDay collapses a full-horizon trace into a representative 24-hour
// profile by averaging each hour of day.
func TypicalDay(trace []dispatch.HourRow) []HourOfDayAverage {
	sums := make([]HourOfDayAverage, 24)
	counts := make([]int, 24)
	for i := range sums {
		sums[i].HourOfDay = i
	}

	for _, row := range trace {
		hod := row.Hour % 24
		s := &sums[hod]
		s.LoadKW += row.LoadKW
		s.PVKW += row.PVKW
		s.WindKW += row.WindKW
		s.HydroKW += row.HydroKW
		s.ChargeKW += row.ChargeKW
		s.DischargeKW += row.DischargeKW
		s.SOCKWh += row.SOCKWh
		counts[hod]++
	}

	for i := range sums {
		if counts[i] == 0 {
			continue
		}
		n := float64(counts[i])
		s := &sums[i]
		s.LoadKW /= n
		s.PVKW /= n
		s.WindKW /= n
		s.HydroKW /= n
		s.ChargeKW /= n
		s.DischargeKW /= n
		s.SOCKWh /= n
	}
	return sums
}
