package lookup

import "github.com/i474232898/location-weather/internal/common"

// ConditionFromDescription maps a free-text weather description
// (e.g. "Partly cloudy", "Light rain shower") onto a Condition.
func ConditionFromDescription(text string) Condition {
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(text, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
