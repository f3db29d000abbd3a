package signal

// Attack and decay lengths of the tone envelope, before the half-length guard.
const (
	AttackSeconds = 0.05
	DecaySeconds  = 0.25
)

// Envelope returns an n-sample attack/sustain/decay gain curve.
//
// The attack ramps linearly 0→1 over the first attack samples and the decay
// ramps 1→0 over the last decay samples; both ramps include their end points.
// Each segment is limited to n/2 samples so they never overlap on short
// buffers.
func Envelope(n, attack, decay int) []float64 {
	if n <= 0 {
		return nil
	}

	half := n / 2
	attack = clampLen(attack, half)
	decay = clampLen(decay, half)

	env := make([]float64, n)
	for i := range env {
		env[i] = 1
	}

	ramp(env[:attack], 0, 1)
	ramp(env[n-decay:], 1, 0)

	return env
}

func ramp(seg []float64, from, to float64) {
	switch len(seg) {
	case 0:
		return
	case 1:
		seg[0] = from
		return
	}

	step := (to - from) / float64(len(seg)-1)
	for i := range seg {
		seg[i] = from + step*float64(i)
	}
	seg[len(seg)-1] = to
}

func clampLen(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
