package domain

import (
	"errors"
	"testing"
)

func TestMetricVector_Validate(t *testing.T) {
	for value := -2; value <= 12; value++ {
		v := DefaultMetricVector()
		v.Stress = value

		err := v.Validate()
		wantOK := value >= 1 && value <= 10
		if wantOK && err != nil {
			t.Errorf("Validate() with stress=%d returned %v, want nil", value, err)
		}
		if !wantOK {
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Validate() with stress=%d error = %v, want ErrOutOfRange", value, err)
			}
			var rangeErr *OutOfRangeError
			if !errors.As(err, &rangeErr) || rangeErr.Channel != ChannelStress || rangeErr.Value != value {
				t.Errorf("Validate() error = %+v, want channel stress value %d", rangeErr, value)
			}
		}
	}
}

func TestMetricVector_Validate_NamesFirstOffendingChannel(t *testing.T) {
	tests := []struct {
		name        string
		vector      MetricVector
		wantChannel Channel
	}{
		{
			name:        "zero value vector fails on energy",
			vector:      MetricVector{},
			wantChannel: ChannelEnergy,
		},
		{
			name: "sleep quality before fatigue",
			vector: func() MetricVector {
				v := DefaultMetricVector()
				v.Fatigue = 11
				v.SleepQuality = 0
				return v
			}(),
			wantChannel: ChannelSleepQuality,
		},
		{
			name: "last channel",
			vector: func() MetricVector {
				v := DefaultMetricVector()
				v.Focus = 42
				return v
			}(),
			wantChannel: ChannelFocus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rangeErr *OutOfRangeError
			if err := tt.vector.Validate(); !errors.As(err, &rangeErr) {
				t.Fatalf("Validate() error = %v, want OutOfRangeError", err)
			}
			if rangeErr.Channel != tt.wantChannel {
				t.Errorf("Validate() channel = %s, want %s", rangeErr.Channel, tt.wantChannel)
			}
		})
	}
}

func TestMetricVector_With(t *testing.T) {
	base := DefaultMetricVector()

	updated, err := base.With(ChannelFocus, 9)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if updated.Focus != 9 {
		t.Errorf("With() focus = %d, want 9", updated.Focus)
	}
	if base.Focus != DefaultMetricValue {
		t.Errorf("With() modified receiver: focus = %d", base.Focus)
	}

	if _, err := base.With(ChannelFocus, 11); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("With(11) error = %v, want ErrOutOfRange", err)
	}
	if _, err := base.With(Channel("hydration"), 5); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("With(unknown) error = %v, want ErrUnknownChannel", err)
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input   string
		want    Channel
		wantErr bool
	}{
		{input: "energy", want: ChannelEnergy},
		{input: " Sleep_Quality ", want: ChannelSleepQuality},
		{input: "muscle_soreness", want: ChannelMuscleSoreness},
		{input: "hydration", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChannel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChannel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChannel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChannels_CoverEveryField(t *testing.T) {
	v := MetricVector{}
	for i, c := range Channels {
		var err error
		v, err = v.With(c, i+1)
		if err != nil {
			t.Fatalf("With(%s) error = %v", c, err)
		}
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Validate() after setting every channel = %v", err)
	}
}
