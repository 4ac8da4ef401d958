package threat

// Classification cutoffs, inclusive lower bounds evaluated highest first.
// Note: the alert_thresholds table in the configuration file is retained
// for compatibility with older deployments but is not consulted here.
const (
	criticalCutoff = 0.9
	highCutoff     = 0.8
	mediumCutoff   = 0.6
)

// Classify maps a confidence score to a threat level. It is total over
// [0,1] and monotonic: a higher confidence never yields a lower level.
// Callers are responsible for validating the confidence range; values
// above 1 classify as critical and values below 0 as low.
func Classify(confidence float64) Level {
	switch {
	case confidence >= criticalCutoff:
		return LevelCritical
	case confidence >= highCutoff:
		return LevelHigh
	case confidence >= mediumCutoff:
		return LevelMedium
	default:
		return LevelLow
	}
}
