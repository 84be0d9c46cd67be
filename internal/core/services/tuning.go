package services

// Tuning collects the numeric knobs of the prediction engine. Values come
// from the environment via internal/config; DefaultTuning supplies the
// shipped calibration.
type Tuning struct {
	DueNowThresholdHours  float64
	DueSoonThresholdHours float64

	HighConfidenceRides int
	HighConfidenceHours float64
	MedConfidenceRides  int
	MedConfidenceHours  float64

	WearRatioMin        float64
	WearRatioMax        float64
	MaxExtensionRatio   float64
	BaselineWearPerHour float64

	RecentSampleSize     int
	PrimaryLookbackDays  int
	FallbackLookbackDays int
}

func DefaultTuning() Tuning {
	return Tuning{
		DueNowThresholdHours:  5,
		DueSoonThresholdHours: 15,
		HighConfidenceRides:   10,
		HighConfidenceHours:   20,
		MedConfidenceRides:    4,
		MedConfidenceHours:    8,
		WearRatioMin:          0.75,
		WearRatioMax:          1.5,
		MaxExtensionRatio:     1.25,
		BaselineWearPerHour:   1.0,
		RecentSampleSize:      10,
		PrimaryLookbackDays:   30,
		FallbackLookbackDays:  90,
	}
}
