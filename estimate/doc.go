// Package estimate computes conditional mutual information I(X;Y|Z) from
// paired samples.
//
// 🚀 Estimators:
//
//	KSG      — k-nearest-neighbour estimator for continuous data (Frenzel–Pompe
//	           form of the Kraskov–Stögbauer–Grassberger estimator):
//
//	  ε_i   = Chebyshev distance from point i to its k-th neighbour in XYZ
//	  n_S(i) = #{ j ≠ i : ‖s_j − s_i‖∞ < ε_i }   for S ∈ {XZ, YZ, Z}
//	  Î     = ψ(k) − ⟨ψ(n_xz+1) + ψ(n_yz+1) − ψ(n_z+1)⟩   (nats)
//
//	Discrete — plug-in estimator over exact value events, for data that is
//	           already discretised:
//
//	  Î = Σ p(x,y,z) · log( p(z)·p(x,y,z) / (p(x,z)·p(y,z)) )
//
// Both divide by ln(base) to report the result in the requested unit
// (base e ⇒ nats, 2 ⇒ bits). The k-NN estimate is deterministic and may be
// slightly negative near independence; that is a property of the estimator,
// not an error.
//
// A nil z means "no conditioning": the estimators then compute I(X;Y).
//
// ⚙️ Usage:
//
//	v, err := estimate.KNN(x, y, z, 3, math.E)
//	e := estimate.KSG{K: 5, Base: 2}
//	v, err = e.Estimate(x, y, z)
//
// Errors:
//   - ErrShape               — nil x/y or unequal observation counts.
//   - ErrInsufficientSamples — N ≤ k.
//   - ErrBadK                — k < 1.
//   - ErrBadBase             — base not finite, ≤ 0, or 1.
package estimate
