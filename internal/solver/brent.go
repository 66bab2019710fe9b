package solver

import (
	"errors"
	"math"
)

var (
	// ErrNoBracket indicates f(a) and f(b) have the same sign.
	ErrNoBracket = errors.New("solver: interval does not bracket a root")

	// ErrNotConverged indicates the iteration budget ran out. The returned
	// root is the best iterate reached.
	ErrNotConverged = errors.New("solver: root did not converge within iteration budget")
)

// DefaultRelTol is the relative x tolerance used by Solve: four ulps at 1.0.
const DefaultRelTol = 4 * 2.220446049250313e-16

// Brent finds a root of f in [a, b] with Brent's method: inverse quadratic
// interpolation or secant steps when they stay inside the bracket, bisection
// otherwise.
//
// Iteration stops once the bracket half-width drops below
// (xtol + rtol·|x|)/2. It returns the root, the number of iterations used,
// and ErrNoBracket or ErrNotConverged on failure.
func Brent(f func(float64) float64, a, b, xtol, rtol float64, maxIter int) (float64, int, error) {
	xpre, xcur := a, b
	fpre, fcur := f(xpre), f(xcur)

	if fpre == 0 {
		return xpre, 0, nil
	}
	if fcur == 0 {
		return xcur, 0, nil
	}
	if math.Signbit(fpre) == math.Signbit(fcur) {
		return 0, 0, ErrNoBracket
	}

	var (
		xblk, fblk float64
		spre, scur float64
	)
	for i := 0; i < maxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (xtol + rtol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, i, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
	}
	return xcur, maxIter, ErrNotConverged
}
