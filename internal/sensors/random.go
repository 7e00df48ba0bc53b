package sensors

import (
	"math"
	"math/rand/v2"
)

const (
	minTemperature, maxTemperature = 15.0, 35.0
	minHumidity, maxHumidity       = 20, 80
	minLight, maxLight             = 0, 2000
	// device ids are drawn from [1, 20)
	minID, maxID = 1, 19
)

// Random is a sensor MOCK producing uniformly distributed readings
type Random struct {
	rnd *rand.Rand
}

// NewRandom makes a Random sensor on top of src. A nil src gives a randomly
// seeded PCG source.
func NewRandom(src rand.Source) *Random {
	if src == nil {
		//nolint:gosec // this is a mock
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	//nolint:gosec // this is a mock
	return &Random{rnd: rand.New(src)}
}

func (s *Random) Current() (Reading, error) {
	return Reading{
		Temperature: s.temperature(),
		Humidity:    s.intIn(minHumidity, maxHumidity),
		Light:       s.intIn(minLight, maxLight),
		ID:          s.intIn(minID, maxID),
	}, nil
}

func (s *Random) temperature() float64 {
	t := minTemperature + (maxTemperature-minTemperature)*s.rnd.Float64()

	return math.Round(t*100) / 100
}

// intIn returns a value in [lo, hi], both ends included
func (s *Random) intIn(lo, hi int) int {
	return lo + s.rnd.IntN(hi-lo+1)
}
