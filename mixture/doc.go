// Package mixture resolves observed spectral-feature vectors as a linear
// mixture of two reference vectors (endmembers).
//
// For a candidate fraction a1 in [0,1] the predicted feature vector is
//
//	p = a1*e1 + (1-a1)*e2
//
// and its misfit against an observation d is the sum of squared symmetric
// relative differences
//
//	ssr = sum_i ((p_i - d_i) / ((d_i + p_i) / 2))^2
//
// Features whose averaged value is within Epsilon of zero contribute
// nothing, so all-zero features never produce NaN or Inf.
//
// The fraction minimizing ssr is found with the bounded Brent minimizer
// from package optimize. A2 is always 1-A1.
//
// # Usage
//
//	pair, err := mixture.NewPair(
//	    []string{"depth", "area", "fwhm"},
//	    mixture.Endmember{ID: "kaolinite", Values: kaol},
//	    mixture.Endmember{ID: "smectite", Values: smec},
//	)
//	r := mixture.NewResolver(pair, mixture.Config{})
//	sol, err := r.Resolve(sample)
//	// sol.A1, sol.A2, sol.SSR, sol.Mixture["depth"]
//
// A Resolver holds only read-only state and is safe for concurrent use.
package mixture
