package majorana

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
)

/*
NoiseModel groups the three independent stochastic effects of the device.

  - ReadoutError (p_m): probability that a reported measurement bit is flipped.
    Only the classical report changes, the tableau does not.
  - Dephasing (p_z): per idle step, per qubit, probability of a Z error.
  - Poisoning (p_poison): per idle step, probability that the total fermion
    parity is flipped by a quasiparticle.
*/
type NoiseModel struct {
	ReadoutError float64 `json:"p_m" yaml:"p_m" mapstructure:"p_m"`
	Dephasing    float64 `json:"p_z" yaml:"p_z" mapstructure:"p_z"`
	Poisoning    float64 `json:"p_poison" yaml:"p_poison" mapstructure:"p_poison"`
}

// Validate rejects any rate outside [0,1].
func (nm NoiseModel) Validate() error {
	rates := []struct {
		name string
		p    float64
	}{
		{"p_m", nm.ReadoutError},
		{"p_z", nm.Dephasing},
		{"p_poison", nm.Poisoning},
	}

	for _, r := range rates {
		if math.IsNaN(r.p) || r.p < 0 || r.p > 1 {
			return errors.Wrapf(ErrNoiseRate, "%s=%v", r.name, r.p)
		}
	}

	return nil
}

// Noiseless reports whether every rate is zero.
func (nm NoiseModel) Noiseless() bool {
	return nm.ReadoutError == 0 && nm.Dephasing == 0 && nm.Poisoning == 0
}

// readout returns the reported bit for a true outcome. One draw per call.
func (nm NoiseModel) readout(outcome int, rng *rand.Rand) (int, bool) {
	if rng.Float64() < nm.ReadoutError {
		return outcome ^ 1, true
	}
	return outcome, false
}

// dephased lists the qubits hit by a Z error this step. One draw per qubit.
func (nm NoiseModel) dephased(n int, rng *rand.Rand) []int {
	var hit []int
	for q := 0; q < n; q++ {
		if rng.Float64() < nm.Dephasing {
			hit = append(hit, q)
		}
	}
	return hit
}

// poisoned decides whether a poisoning event happens this step. One draw.
func (nm NoiseModel) poisoned(rng *rand.Rand) bool {
	return rng.Float64() < nm.Poisoning
}
