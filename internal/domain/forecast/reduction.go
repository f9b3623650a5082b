package forecast

// heat derating model: half a point of output lost per degree above 25C
const (
	deratingThresholdC = 25.0
	deratingPerDegree  = 0.5
)

// OutputReduction estimates the fractional power-output derating attributable
// to heat for a day's average temperature. Zero at or below the threshold.
func OutputReduction(avgTemp float64) float64 {
	if avgTemp <= deratingThresholdC {
		return 0
	}
	return (avgTemp - deratingThresholdC) * deratingPerDegree
}

// RemainingOutput converts the derating estimate into the remaining output
// percentage reported to clients.
func RemainingOutput(avgTemp float64) float64 {
	return 100 - OutputReduction(avgTemp)
}
