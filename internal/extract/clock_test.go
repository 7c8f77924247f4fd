package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantClock  string
		wantBucket string
		wantErr    bool
	}{
		{name: "2pm", message: "2pm", wantClock: "14:00"},
		{name: "2:30 pm", message: "2:30 pm", wantClock: "14:30"},
		{name: "dotted meridiem", message: "9 a.m.", wantClock: "09:00"},
		{name: "midnight am", message: "12am", wantClock: "00:00"},
		{name: "noon pm", message: "12pm", wantClock: "12:00"},
		{name: "24 hour", message: "10:00", wantClock: "10:00"},
		{name: "24 hour afternoon", message: "at 16:30 if possible", wantClock: "16:30"},
		{name: "single digit hour", message: "9:30", wantClock: "09:30"},
		{name: "noon word", message: "around noon", wantClock: "12:00"},
		{name: "oclock afternoon", message: "3 o'clock", wantClock: "15:00"},
		{name: "oclock morning", message: "11 oclock", wantClock: "11:00"},
		{name: "morning", message: "sometime in the morning", wantClock: "10:00", wantBucket: BucketMorning},
		{name: "afternoon", message: "Afternoon", wantClock: "14:00", wantBucket: BucketAfternoon},
		{name: "evening", message: "evening works", wantClock: "17:00", wantBucket: BucketEvening},
		{name: "exact beats bucket", message: "morning, 9am", wantClock: "09:00"},
		{name: "invalid meridiem hour", message: "14pm", wantErr: true},
		{name: "no time", message: "whenever", wantErr: true},
		{name: "empty", message: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Time(tt.message)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClock, got.Clock)
			assert.Equal(t, tt.wantBucket, got.Bucket)
			assert.Equal(t, tt.wantBucket == "", got.Exact())
		})
	}
}

func TestClockHelpers(t *testing.T) {
	assert.Equal(t, "2:30 PM", HumanClock("14:30"))
	assert.Equal(t, "12:00 AM", HumanClock("00:00"))
	assert.Equal(t, "12:00 PM", HumanClock("12:00"))
	assert.Equal(t, "junk", HumanClock("junk"))

	m, ok := Minutes("09:30")
	require.True(t, ok)
	assert.Equal(t, 570, m)
	_, ok = Minutes("25:00")
	assert.False(t, ok)

	assert.Equal(t, BucketMorning, BucketOf("09:00"))
	assert.Equal(t, BucketAfternoon, BucketOf("12:30"))
	assert.Equal(t, BucketEvening, BucketOf("18:00"))
	assert.Equal(t, "", BucketOf("later"))
}
