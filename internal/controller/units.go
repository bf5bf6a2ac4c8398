package controller

const (
	// pascalPerCmH2O is the integer conversion factor used by the controller.
	pascalPerCmH2O = 98
	// msPerMinute converts between a rate and its period.
	msPerMinute = 60000
)

// CmH2OToPascal converts a pressure to Pa.
func CmH2OToPascal(cm int32) int32 {
	return cm * pascalPerCmH2O
}

// PascalToCmH2O converts a pressure to cmH2O, truncating.
func PascalToCmH2O(pa int32) int32 {
	return pa / pascalPerCmH2O
}

// BPMToPeriodMs converts breaths per minute to a rounded period in ms.
func BPMToPeriodMs(bpm int32) int32 {
	return roundDiv(msPerMinute, bpm)
}

// PeriodMsToBPM converts a breath period in ms to a rounded rate.
func PeriodMsToBPM(ms int32) int32 {
	return roundDiv(msPerMinute, ms)
}

func roundDiv(num, den int32) int32 {
	if den <= 0 {
		return 0
	}

	return (num + den/2) / den
}
