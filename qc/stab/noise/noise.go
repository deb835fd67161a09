// Package noise implements the Pauli noise channels dispatched by the
// executor on top of the tableau's gate interface: X_ERROR, Z_ERROR,
// DEPOLARIZE1, and DEPOLARIZE2. None of these are properties of the
// tableau itself; they are sampling decisions layered on top of it.
package noise

import (
	"math/rand"

	"github.com/clifford-labs/stabsim/qc/stab/tableau"
)

// XError applies X to qubit q with independent probability p.
func XError(t *tableau.Tableau, rng *rand.Rand, q int, p float64) {
	if rng.Float64() < p {
		t.X(q)
	}
}

// ZError applies Z to qubit q with independent probability p.
func ZError(t *tableau.Tableau, rng *rand.Rand, q int, p float64) {
	if rng.Float64() < p {
		t.Z(q)
	}
}

// Depolarize1 applies, with probability p, a uniform choice among {X,
// Y, Z} to qubit q. The three-way choice uses the fixed order X, Y, Z
// so seeded runs reproduce deterministically across implementations.
func Depolarize1(t *tableau.Tableau, rng *rand.Rand, q int, p float64) {
	if rng.Float64() >= p {
		return
	}
	switch rng.Intn(3) {
	case 0:
		t.X(q)
	case 1:
		t.Y(q)
	case 2:
		t.Z(q)
	}
}

// pauliPair is one of the 15 non-identity two-qubit Pauli choices for
// DEPOLARIZE2, in the canonical lexicographic order over (a,b) in
// {0,1,2,3}^2 skipping (0,0), where 0=I, 1=X, 2=Y, 3=Z.
type pauliPair struct{ a, b uint8 }

var depolarize2Choices = func() []pauliPair {
	choices := make([]pauliPair, 0, 15)
	for a := uint8(0); a < 4; a++ {
		for b := uint8(0); b < 4; b++ {
			if a == 0 && b == 0 {
				continue
			}
			choices = append(choices, pauliPair{a, b})
		}
	}
	return choices
}()

// applyPauli applies the single-qubit Pauli named by code (0=I,1=X,2=Y,3=Z)
// to qubit q. 0 is a deliberate no-op.
func applyPauli(t *tableau.Tableau, code uint8, q int) {
	switch code {
	case 1:
		t.X(q)
	case 2:
		t.Y(q)
	case 3:
		t.Z(q)
	}
}

// Depolarize2 applies, with probability p, a uniform choice among the 15
// non-identity two-qubit Paulis {I,X,Y,Z}(x){I,X,Y,Z} minus I(x)I, to the
// pair (q0,q1), using the canonical enumeration order above.
func Depolarize2(t *tableau.Tableau, rng *rand.Rand, q0, q1 int, p float64) {
	if rng.Float64() >= p {
		return
	}
	choice := depolarize2Choices[rng.Intn(len(depolarize2Choices))]
	applyPauli(t, choice.a, q0)
	applyPauli(t, choice.b, q1)
}
