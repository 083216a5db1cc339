package domain

import (
	"fmt"
	"strings"
)

// Channel names one self-reported metric of the daily check-in.
// @Description Metric channel name.
type Channel string

const (
	ChannelEnergy          Channel = "energy"
	ChannelSleepQuality    Channel = "sleep_quality"
	ChannelMentalWellbeing Channel = "mental_wellbeing"
	ChannelMuscleSoreness  Channel = "muscle_soreness"
	ChannelStress          Channel = "stress"
	ChannelMotivation      Channel = "motivation"
	ChannelFatigue         Channel = "fatigue"
	ChannelFocus           Channel = "focus"
)

const (
	MinMetricValue     = 1
	MaxMetricValue     = 10
	DefaultMetricValue = 5
)

// Channels lists every channel in validation order.
var Channels = []Channel{
	ChannelEnergy,
	ChannelSleepQuality,
	ChannelMentalWellbeing,
	ChannelMuscleSoreness,
	ChannelStress,
	ChannelMotivation,
	ChannelFatigue,
	ChannelFocus,
}

// ParseChannel resolves a channel name, case-insensitively.
func ParseChannel(name string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Channels {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// MetricVector is one day's self-report. Every channel is an integer in [1, 10].
// @Description Daily self-reported metrics, each from 1 (lowest) to 10 (highest).
type MetricVector struct {
	Energy          int `json:"energy" example:"7" minimum:"1" maximum:"10"`
	SleepQuality    int `json:"sleep_quality" example:"6" minimum:"1" maximum:"10"`
	MentalWellbeing int `json:"mental_wellbeing" example:"8" minimum:"1" maximum:"10"`
	MuscleSoreness  int `json:"muscle_soreness" example:"4" minimum:"1" maximum:"10"`
	Stress          int `json:"stress" example:"3" minimum:"1" maximum:"10"`
	Motivation      int `json:"motivation" example:"9" minimum:"1" maximum:"10"`
	Fatigue         int `json:"fatigue" example:"4" minimum:"1" maximum:"10"`
	Focus           int `json:"focus" example:"7" minimum:"1" maximum:"10"`
}

// DefaultMetricVector returns the neutral starting point shown before the athlete adjusts anything.
func DefaultMetricVector() MetricVector {
	return MetricVector{
		Energy:          DefaultMetricValue,
		SleepQuality:    DefaultMetricValue,
		MentalWellbeing: DefaultMetricValue,
		MuscleSoreness:  DefaultMetricValue,
		Stress:          DefaultMetricValue,
		Motivation:      DefaultMetricValue,
		Fatigue:         DefaultMetricValue,
		Focus:           DefaultMetricValue,
	}
}

func (v *MetricVector) field(c Channel) *int {
	switch c {
	case ChannelEnergy:
		return &v.Energy
	case ChannelSleepQuality:
		return &v.SleepQuality
	case ChannelMentalWellbeing:
		return &v.MentalWellbeing
	case ChannelMuscleSoreness:
		return &v.MuscleSoreness
	case ChannelStress:
		return &v.Stress
	case ChannelMotivation:
		return &v.Motivation
	case ChannelFatigue:
		return &v.Fatigue
	case ChannelFocus:
		return &v.Focus
	}
	return nil
}

// Get returns the value of a channel.
func (v MetricVector) Get(c Channel) (int, bool) {
	p := v.field(c)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// With returns a copy of v with one channel changed. The receiver is never modified.
func (v MetricVector) With(c Channel, value int) (MetricVector, error) {
	p := v.field(c)
	if p == nil {
		return v, fmt.Errorf("%w: %q", ErrUnknownChannel, c)
	}
	if !inRange(value) {
		return v, &OutOfRangeError{Channel: c, Value: value}
	}
	*p = value
	return v, nil
}

// Validate reports the first channel, in Channels order, whose value is outside [1, 10].
func (v MetricVector) Validate() error {
	for _, c := range Channels {
		value, _ := v.Get(c)
		if !inRange(value) {
			return &OutOfRangeError{Channel: c, Value: value}
		}
	}
	return nil
}

func inRange(value int) bool {
	return value >= MinMetricValue && value <= MaxMetricValue
}

// OutOfRangeError names the offending channel. It matches ErrOutOfRange with errors.Is.
type OutOfRangeError struct {
	Channel Channel
	Value   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s=%d, must be between %d and %d",
		ErrOutOfRange, e.Channel, e.Value, MinMetricValue, MaxMetricValue)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
