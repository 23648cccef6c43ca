package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vahagn22/resgnn/internal/solver"
)

func main() {
	// Define arguments
	problemsPtr := flag.String("problems", "", "Directory holding generated .p problem files")
	outPtr := flag.String("out", "", "Directory where <base>_solved.txt outputs are written")
	imagePtr := flag.String("image", "vahagn22/vampire", "Vampire docker image")
	timeLimitPtr := flag.Int("timelimit", 100, "Time limit per problem in seconds")
	flag.Parse()

	// Validate arguments
	if *problemsPtr == "" {
		log.Fatal("a problems directory must be specified")
	} else if *outPtr == "" {
		log.Fatal("an output directory must be specified")
	} else if *timeLimitPtr < 1 {
		log.Fatalf("time limit must be at least 1 second: %v", *timeLimitPtr)
	}

	runner := solver.NewVampireRunner(*imagePtr, *timeLimitPtr)
	if err := runner.Solve(*problemsPtr, *outPtr); err != nil {
		log.Fatalf("an error occurred while solving problems: %v", err)
	}

	fmt.Println("Well done!")
}
