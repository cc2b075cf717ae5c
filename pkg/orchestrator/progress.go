package orchestrator

// Phase boundaries on the overall [0.0, 1.0] scale. Each phase owns a
// disjoint sub-range; component-level fractions are mapped linearly into the
// active phase's range. The fallback installer run re-uses the extraction
// range.
const (
	backendEnd = 0.15
	// manifestPrepEnd closes the container-preparation range in the
	// manifest-driven mode, where the container is needed before the first
	// package extraction.
	manifestPrepEnd = 0.20
	downloadEnd     = 0.55
	prepareEnd      = 0.60
	extractEnd      = 0.95

	// Sub-split of the fallback range: lazily downloading the installer,
	// then running it.
	fallbackFetchEnd = 0.70
)

// span maps a component fraction in [0,1] linearly into [start, end].
func span(start, end, fraction float64) float64 {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return start + (end-start)*fraction
}

// tracker serializes progress emissions and clamps fractions so the caller
// always observes a monotonically non-decreasing value, regardless of which
// internal phase is active.
type tracker struct {
	hooks Hooks
	last  float64
}

func (t *tracker) emit(phase Phase, fraction float64, message, detail string) {
	if fraction < t.last {
		fraction = t.last
	}
	if fraction > 1 {
		fraction = 1
	}
	t.last = fraction

	if t.hooks.OnProgress != nil {
		t.hooks.OnProgress(Progress{
			Fraction: fraction,
			Phase:    phase,
			Message:  message,
			Detail:   detail,
		})
	}
}

// fail emits the terminal error value at the current fraction.
func (t *tracker) fail(err error) {
	t.emit(PhaseError, t.last, err.Error(), "")
}

// done emits the terminal success value.
func (t *tracker) done(message string) {
	t.emit(PhaseDone, 1.0, message, "")
}
