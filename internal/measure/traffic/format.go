package traffic

import (
	"fmt"
	"math/bits"
)

const (
	kb = 1024
	mb = 1024 * kb
	gb = 1024 * mb
)

// FormatBytes renders n with a 1024-based unit and one decimal place above
// bytes, e.g. 1023B, 1.5KB, 1.0MB. The decimal rounds half up.
func FormatBytes(n uint64) string {
	switch {
	case n < kb:
		return fmt.Sprintf("%dB", n)
	case n < mb:
		return formatTenths(n, kb, "KB")
	case n < gb:
		return formatTenths(n, mb, "MB")
	default:
		return formatTenths(n, gb, "GB")
	}
}

// formatTenths prints n/unit to one decimal place using integer math, so
// exact halves such as 1280/1024 = 1.25 round up to 1.3.
func formatTenths(n, unit uint64, suffix string) string {
	hi, lo := bits.Mul64(n, 10)
	lo, carry := bits.Add64(lo, unit/2, 0)
	hi += carry

	// hi < 10 < unit, so the quotient fits in 64 bits
	tenths, _ := bits.Div64(hi, lo, unit)
	return fmt.Sprintf("%d.%d%s", tenths/10, tenths%10, suffix)
}

func FormatRate(bytesPerSecond uint64) string {
	return FormatBytes(bytesPerSecond) + "/s"
}
