package dialog

import (
	"fmt"
	"strconv"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/nlp"
)

// FormatForecast renders a forecast payload according to what the
// query asked for: a condition keyword gets a yes/no answer, a
// temperature keyword gets the temperature range only, anything else
// the full forecast.
func FormatForecast(f core.Forecast, condition string, temperatureOnly, isToday bool) string {
	minTemp := formatTemp(f.Temperature.Min)
	maxTemp := formatTemp(f.Temperature.Max)

	if condition != "" {
		if nlp.ConditionMatches(condition, f.Weather) {
			return fmt.Sprintf("Yes, expect %s on %s in %s. Weather: %s, %s to %s.",
				condition, f.Day, f.Place, f.Weather, minTemp, maxTemp)
		}
		return fmt.Sprintf("No, there is no %s expected on %s in %s. Weather: %s, %s to %s.",
			condition, f.Day, f.Place, f.Weather, minTemp, maxTemp)
	}

	if temperatureOnly {
		if isToday {
			return fmt.Sprintf("Today the temperature in %s will be between %s and %s.",
				f.Place, minTemp, maxTemp)
		}
		return fmt.Sprintf("On %s the temperature in %s will be between %s and %s.",
			f.Day, f.Place, minTemp, maxTemp)
	}

	if isToday {
		return fmt.Sprintf("The weather today in %s will be %s with temperatures between %s and %s.",
			f.Place, f.Weather, minTemp, maxTemp)
	}
	return fmt.Sprintf("The weather in %s on %s will be %s with temperatures between %s and %s.",
		f.Place, f.Day, f.Weather, minTemp, maxTemp)
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}
