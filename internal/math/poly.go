package math

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Fit fits the given series of x and y into a polynomial function of the given degree
// out put is a vector with the coefficients of the corresponding powers of x
// c[0] + c[1]x + c[2]x^2 + c[3]x^3 + ...
func Fit(x, y []float64, degree int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("cannot fit %d x values to %d y values", len(x), len(y))
	}
	if len(x) <= degree {
		return nil, fmt.Errorf("cannot fit %d points to a polynomial of degree %d", len(x), degree)
	}

	a := vandermonde(x, degree)
	b := mat.NewDense(len(y), 1, y)
	c := mat.NewDense(degree+1, 1, nil)

	qr := new(mat.QR)
	qr.Factorize(a)

	if err := qr.SolveTo(c, false, b); err != nil {
		return nil, err
	}

	return mat.Col(nil, 0, c), nil
}

// Trend returns the slope of the linear fit of the series over its index.
func Trend(y []float64) (float64, error) {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	c, err := Fit(x, y, 1)
	if err != nil {
		return 0, err
	}
	return c[1], nil
}

func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}
