package domain

import (
	"fmt"
	"strings"
)

// WeatherConditions is the current-weather snapshot a provider returns for a
// coordinate: primary condition label, free-text description, and rainfall
// over the last hour in millimetres.
type WeatherConditions struct {
	Main        string
	Description string
	RainOneHour float64
}

// severeIndicators are the condition substrings that corroborate a disaster
// claim regardless of rainfall.
var severeIndicators = []string{
	"thunderstorm", "heavy", "extreme", "torrential", "violent",
	"flood", "storm", "hurricane", "typhoon", "cyclone", "tornado",
}

// AssessConditions applies the corroboration rule: confirmed when rainfall
// exceeds 5mm in the last hour (strictly) or the condition label or
// description contains a severe-weather indicator. The detail string is a
// short human-readable combination of description and rainfall.
func AssessConditions(cond WeatherConditions) WeatherAssessment {
	main := strings.ToLower(cond.Main)
	desc := strings.ToLower(cond.Description)

	confirmed := cond.RainOneHour > 5 ||
		containsAny(main, severeIndicators) ||
		containsAny(desc, severeIndicators)

	return WeatherAssessment{
		Confirmed: confirmed,
		Detail:    fmt.Sprintf("%s, %gmm rain in last hour", desc, cond.RainOneHour),
	}
}
