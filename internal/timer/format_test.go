package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCountdown(t *testing.T) {
	cases := map[int]string{
		600: "10:00",
		599: "09:59",
		590: "09:50",
		65:  "01:05",
		60:  "01:00",
		9:   "00:09",
		0:   "00:00",
		-3:  "00:00",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, FormatCountdown(seconds), "seconds=%d", seconds)
	}
}

func TestFormatCountdownWidth(t *testing.T) {
	for s := 0; s <= 600; s++ {
		got := FormatCountdown(s)
		if assert.Len(t, got, 5, "seconds=%d", s) {
			assert.Equal(t, byte(':'), got[2])
		}
	}
}
