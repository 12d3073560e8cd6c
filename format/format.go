// Package format renders the counts cevia reports on a terminal: token and
// vocabulary totals, evaluation pair counts and corpus file sizes.
package format

import "fmt"

// HumanNumber renders n with a metric suffix at three significant digits,
// the form training and evaluation summaries use for token counts.
func HumanNumber(n uint64) string {
	scales := []struct {
		cutoff uint64
		suffix string
	}{
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "K"},
	}

	for _, s := range scales {
		if n < s.cutoff {
			continue
		}
		v := float64(n) / float64(s.cutoff)
		switch {
		case v >= 100:
			return fmt.Sprintf("%.0f%s", v, s.suffix)
		case v >= 10:
			return fmt.Sprintf("%.1f%s", v, s.suffix)
		default:
			return fmt.Sprintf("%.2f%s", v, s.suffix)
		}
	}

	return fmt.Sprintf("%d", n)
}

// HumanBytes renders a decimal file size, used when reporting the corpus a
// model was trained on.
func HumanBytes(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n)
	units := []string{"KB", "MB", "GB"}
	for i, unit := range units {
		v /= 1000
		if v < 1000 || i == len(units)-1 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
	}

	return fmt.Sprintf("%d B", n)
}
