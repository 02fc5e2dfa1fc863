package ml

import (
	"fmt"
	"math"

	xmachina "github.com/drakos74/go-ex-machina/xmachina/ml"
)

// Activation enumerates the element-wise non-linearities a gate can apply.
type Activation int

const (
	// Identity leaves the affine output untouched.
	Identity Activation = iota
	// Sigmoid is the logistic function, ranging in (0,1).
	Sigmoid
	// SoftSign is the fast sigmoid approximation x/(1+|x|), ranging in (-1,1).
	SoftSign
	// TanH is the saturating hyperbolic tangent, ranging in (-1,1).
	TanH
)

// F applies the activation function.
func (a Activation) F(x float64) float64 {
	switch a {
	case Sigmoid:
		return xmachina.Sigmoid.F(x)
	case SoftSign:
		return x / (1 + math.Abs(x))
	case TanH:
		return xmachina.TanH.F(x)
	default:
		return x
	}
}

// D returns the derivative of the activation function at the (pre-activation) input x.
func (a Activation) D(x float64) float64 {
	switch a {
	case Sigmoid:
		return xmachina.Sigmoid.D(xmachina.Sigmoid.F(x))
	case SoftSign:
		d := 1 + math.Abs(x)
		return 1 / (d * d)
	case TanH:
		return xmachina.TanH.D(xmachina.TanH.F(x))
	default:
		return 1
	}
}

func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case Sigmoid:
		return "sigmoid"
	case SoftSign:
		return "softsign"
	case TanH:
		return "tanh"
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// ParseActivation returns the activation for the given name.
func ParseActivation(name string) (Activation, error) {
	switch name {
	case "identity":
		return Identity, nil
	case "sigmoid":
		return Sigmoid, nil
	case "softsign":
		return SoftSign, nil
	case "tanh":
		return TanH, nil
	}
	return Identity, fmt.Errorf("unknown activation '%s': %w", name, InvalidConfigErr)
}

// saturate is the non-linearity the cell applies on its cell state.
func saturate(x float64) float64 {
	return TanH.F(x)
}

func saturateDerivative(x float64) float64 {
	return TanH.D(x)
}
