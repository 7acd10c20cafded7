package bishop

import (
	"github.com/alexiusacademia/goslope/internal/geometry"
)

// LocateSpan finds the horizontal span over which the lower arc of the
// circle lies below the ground surface.
//
// The interval [xc-R+margin, xc+R-margin] is sampled at a fixed resolution
// and the sign of ground(x) - arc(x) is compared between neighbouring
// samples. The sample to the left of the first sign change is the entry
// point and the sample to the left of the last change is the exit point;
// interior changes are ignored. ok is false when fewer than two changes
// exist.
func LocateSpan(circle geometry.Circle, ground *geometry.Profile, opts Options) (span Span, ok bool) {
	opts = opts.withDefaults()

	left, right := circle.Extent()
	xs := geometry.Linspace(left+opts.Margin, right-opts.Margin, opts.Samples)

	first, last := -1, -1
	prev := sign(ground.At(xs[0]) - circle.Base(xs[0]))
	for i := 1; i < len(xs); i++ {
		s := sign(ground.At(xs[i]) - circle.Base(xs[i]))
		if s != prev {
			if first < 0 {
				first = i - 1
			}
			last = i - 1
		}
		prev = s
	}

	if first < 0 || first == last {
		return Span{}, false
	}

	return Span{Start: xs[first], End: xs[last]}, true
}

// sign returns -1, 0 or +1
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
