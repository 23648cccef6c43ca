package gnn

import "math"

// Adam implements the Adam update rule over every model parameter.
type Adam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	step int
}

func NewAdam(lr float64) *Adam {
	return &Adam{LR: lr, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}
}

// Step applies one update using the gradients accumulated since the last
// ZeroGrad, scaled by the given factor (the trainer passes the reciprocal of
// the batch's total label weight).
func (a *Adam) Step(model *EdgeClassifier, scale float64) {
	a.step++
	correction1 := 1 - math.Pow(a.Beta1, float64(a.step))
	correction2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for _, p := range model.params() {
		rows, cols := p.val.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				g := p.grad.At(i, j) * scale

				m := a.Beta1*p.m.At(i, j) + (1-a.Beta1)*g
				v := a.Beta2*p.v.At(i, j) + (1-a.Beta2)*g*g
				p.m.Set(i, j, m)
				p.v.Set(i, j, v)

				update := a.LR * (m / correction1) / (math.Sqrt(v/correction2) + a.Eps)
				p.val.Set(i, j, p.val.At(i, j)-update)
			}
		}
	}
}
