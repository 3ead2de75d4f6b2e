package projection

// LeanBodyMass returns the fat-free mass in kg.
func LeanBodyMass(weightKg, bodyFatPct float64) float64 {
	return weightKg * (1 - bodyFatPct/100)
}

// BMR returns the basal metabolic rate in kcal/day. Katch-McArdle works from
// lean mass; Mifflin-St Jeor ignores body fat entirely.
func BMR(f Formula, weightKg, heightCm, bodyFatPct float64, age int, g Gender) float64 {
	if f == MifflinStJeor {
		s := 5.0
		if g == Female {
			s = -161
		}
		return 10*weightKg + 6.25*heightCm - 5*float64(age) + s
	}
	return 370 + 21.6*LeanBodyMass(weightKg, bodyFatPct)
}

func TDEE(bmr, activityMultiplier float64) float64 {
	return bmr * activityMultiplier
}
