package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/vahagn22/resgnn/internal/data"
	"github.com/vahagn22/resgnn/internal/gnn"
	"github.com/vahagn22/resgnn/internal/train"
)

const trainRatio = 0.8

func main() {
	// Define arguments
	dataPtr := flag.String("data", "", "Comma-separated list of .jsonl files or directories holding labeled examples")
	epochsPtr := flag.Int("epochs", 10, "Number of training epochs")
	lrPtr := flag.Float64("lr", 1e-4, "Learning rate")
	batchPtr := flag.Int("batch", 8, "Batch size")
	maxArgsPtr := flag.Int("maxargs", 3, "Number of argument slots in the node features")
	checkpointPtr := flag.String("checkpoint", "models/gnn_model.json", "Path where the trained model is written")
	initPtr := flag.String("init", "", "Path to a checkpoint to load before training (optional)")
	predicatesPtr := flag.String("predicates", "", "Comma-separated explicit predicate vocabulary; auto-collected from the data when empty")
	seedPtr := flag.Int64("seed", 42, "Seed for the train/test split and weight initialization")
	flag.Parse()

	// Validate arguments
	if *dataPtr == "" {
		log.Fatal("at least one data file or directory must be specified")
	} else if *epochsPtr < 1 {
		log.Fatalf("epochs must be at least 1: %v", *epochsPtr)
	} else if *lrPtr <= 0 {
		log.Fatalf("learning rate must be positive: %v", *lrPtr)
	} else if *batchPtr < 1 {
		log.Fatalf("batch size must be at least 1: %v", *batchPtr)
	} else if *maxArgsPtr < 0 {
		log.Fatalf("maxargs must not be negative: %v", *maxArgsPtr)
	}

	paths := splitList(*dataPtr)
	predicates := splitList(*predicatesPtr)

	// Build dataset
	dataset, err := data.NewDataset(paths, predicates, *maxArgsPtr, true)
	if err != nil {
		log.Fatalf("cannot load dataset: %v", err)
	} else if dataset.Len() == 0 {
		log.Fatal("dataset holds no usable examples")
	}

	rng := rand.New(rand.NewSource(*seedPtr))
	trainIdx, testIdx := train.Split(dataset.Len(), trainRatio, rng)

	// Initialize model
	cfg := gnn.DefaultConfig(dataset.Vocabulary().Size(), dataset.MaxArgs())
	cfg.Seed = *seedPtr
	model := gnn.NewEdgeClassifier(cfg)

	loadPath := *initPtr
	if loadPath == "" {
		if _, err := os.Stat(*checkpointPtr); err == nil {
			loadPath = *checkpointPtr
		}
	}
	if loadPath != "" {
		if err := model.Load(loadPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("no checkpoint at %v, training from scratch", loadPath)
			} else {
				log.Fatalf("cannot load weights: %v", err)
			}
		} else {
			fmt.Printf("Loaded weights from %v\n", loadPath)
		}
	}

	optimizer := gnn.NewAdam(*lrPtr)

	// Train
	for epoch := 1; epoch <= *epochsPtr; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		loss, err := train.TrainOneEpoch(model, dataset, trainIdx, optimizer, *batchPtr)
		if err != nil {
			log.Fatalf("epoch %v failed: %v", epoch, err)
		}
		trainAcc, err := train.Evaluate(model, dataset, trainIdx, *batchPtr)
		if err != nil {
			log.Fatalf("train evaluation failed: %v", err)
		}
		testAcc, err := train.Evaluate(model, dataset, testIdx, *batchPtr)
		if err != nil {
			log.Fatalf("test evaluation failed: %v", err)
		}

		fmt.Printf("[%02d] loss %.4f | train %.3f | test %.3f\n", epoch, loss, trainAcc, testAcc)
	}

	if err := model.Save(*checkpointPtr); err != nil {
		log.Fatalf("cannot save model: %v", err)
	}
	fmt.Printf("Saved updated model to %v\n", *checkpointPtr)
}

func splitList(value string) []string {
	return lo.FilterMap(strings.Split(value, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
