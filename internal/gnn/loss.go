package gnn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultClassWeights counterweights the label imbalance: almost every
// candidate pair is not the best one.
var DefaultClassWeights = [2]float64{1.0, 3.0}

// WeightedCrossEntropy computes the class-weighted cross-entropy over an
// E x 2 logit matrix. It returns the summed (unnormalized) loss, the summed
// gradient with respect to the logits and the total label weight; dividing
// both sums by the weight reproduces weighted-mean reduction across however
// many graphs share a batch.
func WeightedCrossEntropy(logits *mat.Dense, labels []int, weights [2]float64) (lossSum float64, grad *mat.Dense, weightSum float64) {
	rows, cols := logits.Dims()
	grad = mat.NewDense(rows, cols, nil)

	for i, label := range labels {
		maxLogit := logits.At(i, 0)
		for j := 1; j < cols; j++ {
			maxLogit = math.Max(maxLogit, logits.At(i, j))
		}
		expSum := 0.0
		for j := 0; j < cols; j++ {
			expSum += math.Exp(logits.At(i, j) - maxLogit)
		}

		weight := weights[label]
		lossSum += -weight * (logits.At(i, label) - maxLogit - math.Log(expSum))
		weightSum += weight

		for j := 0; j < cols; j++ {
			p := math.Exp(logits.At(i, j)-maxLogit) / expSum
			indicator := 0.0
			if j == label {
				indicator = 1.0
			}
			grad.Set(i, j, weight*(p-indicator))
		}
	}

	return lossSum, grad, weightSum
}

// Predictions returns the argmax class per edge.
func Predictions(logits *mat.Dense) []int {
	rows, cols := logits.Dims()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if logits.At(i, j) > logits.At(i, best) {
				best = j
			}
		}
		predictions[i] = best
	}
	return predictions
}
