package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1280, "1.3KB"},
		{2816, "2.8KB"},
		{3328, "3.3KB"},
		{1177, "1.1KB"},
		{1178, "1.2KB"},
		{1048575, "1024.0KB"},
		{1048576, "1.0MB"},
		{5 * 1024 * 1024 / 2, "2.5MB"},
		{1073741824, "1.0GB"},
		{3 * 1073741824, "3.0GB"},
		{1073741824 + 1073741824/4, "1.3GB"},
		{1<<64 - 1, "17179869184.0GB"},
		{2048 * 1073741824, "2048.0GB"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatBytes(c.n), "FormatBytes(%d)", c.n)
	}
}

func TestFormatBytesRoundsHalfUp(t *testing.T) {
	ties := 0
	for n := uint64(kb); n < mb; n++ {
		if n*10%kb != kb/2 {
			continue
		}
		ties++
		// a tie formats like the value just above it, not the one below
		assert.Equal(t, FormatBytes(n+1), FormatBytes(n), "FormatBytes(%d)", n)
		assert.NotEqual(t, FormatBytes(n-1), FormatBytes(n), "FormatBytes(%d)", n)
	}
	assert.Positive(t, ties)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "2.0KB/s", FormatRate(2048))
	assert.Equal(t, "0B/s", FormatRate(0))
}
