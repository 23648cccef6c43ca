package solver

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	problemsMount = "/vampire/examples/Gen_Problems"
	outputMount   = "/vampire/examples/Output"
)

// VampireRunner drives the containerized Vampire prover over a directory of
// .p problem files, producing one <base>_solved.txt per problem. The solver
// output is never parsed here; it feeds the upstream data-generation step.
type VampireRunner struct {
	Image     string
	TimeLimit int // seconds per problem
}

func NewVampireRunner(image string, timeLimit int) *VampireRunner {
	return &VampireRunner{Image: image, TimeLimit: timeLimit}
}

// Solve runs one blocking docker invocation; per-problem time limits are
// enforced inside the container by Vampire itself.
func (r *VampireRunner) Solve(problemsDir, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	problemsAbs, err := filepath.Abs(problemsDir)
	if err != nil {
		return err
	}
	outputAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}

	cmd := exec.Command("docker", r.args(problemsAbs, outputAbs)...)
	cmd.Stdout = os.Stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("an error occurred during vampire execution: %v : %v", err.Error(), stderr.String())
	}
	return nil
}

func (r *VampireRunner) args(problemsDir, outputDir string) []string {
	script := fmt.Sprintf(
		`for f in %[1]v/*.p; do base=$(basename "$f" .p); echo "Solving ${base}.p"; ./vampire --mode casc --proof_extra full -t %[3]v "$f" > %[2]v/"${base}"_solved.txt; done`,
		problemsMount, outputMount, r.TimeLimit,
	)
	return []string{
		"run", "--rm",
		"-v", problemsDir + ":" + problemsMount,
		"-v", outputDir + ":" + outputMount,
		"--name", "vampire_solve", r.Image,
		"/bin/bash", "-c", script,
	}
}
