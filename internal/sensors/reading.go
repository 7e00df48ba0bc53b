package sensors

import "fmt"

// Reading is a single simulated data point sent to the sink
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Light       int     `json:"light"`
	ID          int     `json:"id"`
}

func (r Reading) String() string {
	return fmt.Sprintf(
		"{temperature: %.2f, humidity: %d, light: %d, id: %d}",
		r.Temperature, r.Humidity, r.Light, r.ID,
	)
}
