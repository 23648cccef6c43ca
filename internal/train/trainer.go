package train

import (
	"errors"
	"math/rand"

	"github.com/samber/lo"

	"github.com/vahagn22/resgnn/internal/data"
	"github.com/vahagn22/resgnn/internal/gnn"
)

// Split shuffles 0..n-1 with the supplied source and cuts it at trainRatio.
func Split(n int, trainRatio float64, rng *rand.Rand) (trainIdx, testIdx []int) {
	indices := lo.RangeFrom(0, n)
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	cut := int(float64(n) * trainRatio)
	return indices[:cut], indices[cut:]
}

// TrainOneEpoch runs one pass over the given dataset indices in batches of
// batchSize. Gradients accumulate across a batch's graphs and a single Adam
// step is taken per batch, normalized by the batch's total label weight.
// Unusable examples and batches without labeled edges are skipped without
// touching the loss denominator semantics: the average is over all batches.
func TrainOneEpoch(model *gnn.EdgeClassifier, dataset *data.Dataset, indices []int, optimizer *gnn.Adam, batchSize int) (float64, error) {
	batches := lo.Chunk(indices, batchSize)

	totalLoss := 0.0
	for _, batch := range batches {
		model.ZeroGrad()

		lossSum, weightSum := 0.0, 0.0
		for _, i := range batch {
			graph, err := dataset.Get(i)
			if err != nil {
				if errors.Is(err, data.ErrNoEdges) {
					continue
				}
				return 0, err
			}

			logits := model.Forward(graph, true)
			loss, dLogits, weight := gnn.WeightedCrossEntropy(logits, graph.Y, gnn.DefaultClassWeights)
			model.Backward(dLogits)

			lossSum += loss
			weightSum += weight
		}

		if weightSum == 0 { // empty batch
			continue
		}

		optimizer.Step(model, 1/weightSum)
		totalLoss += lossSum / weightSum
	}

	return totalLoss / float64(max(1, len(batches))), nil
}

// Evaluate computes edge-classification accuracy over the given indices with
// dropout disabled. A loader that yields only empty batches evaluates to 0.
func Evaluate(model *gnn.EdgeClassifier, dataset *data.Dataset, indices []int, batchSize int) (float64, error) {
	correct, total := 0, 0
	for _, batch := range lo.Chunk(indices, batchSize) {
		for _, i := range batch {
			graph, err := dataset.Get(i)
			if err != nil {
				if errors.Is(err, data.ErrNoEdges) {
					continue
				}
				return 0, err
			}

			predictions := gnn.Predictions(model.Forward(graph, false))
			for e, label := range graph.Y {
				if predictions[e] == label {
					correct++
				}
			}
			total += len(graph.Y)
		}
	}

	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}
