package models

type Health string

const (
	Healthy Health = "HEALTHY"
	Stalled Health = "STALLED"
)

type HeightReading struct {
	NetworkHeight int64
	DeviceHeight  int64
}

// Gap can be negative when the explorer and the device disagree, that is still healthy.
func (r HeightReading) Gap() int64 {
	return r.NetworkHeight - r.DeviceHeight
}

func (r HeightReading) Classify(maxDelta int64) Health {
	if r.Gap() <= maxDelta {
		return Healthy
	}
	return Stalled
}
