package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVampireArgs(t *testing.T) {
	//**Arrange
	runner := NewVampireRunner("vahagn22/vampire", 100)

	//**Act
	args := runner.args("/data/problems", "/data/solved")

	//**Assert
	assert.Contains(t, args, "/data/problems:"+problemsMount)
	assert.Contains(t, args, "/data/solved:"+outputMount)
	assert.Contains(t, args, "vahagn22/vampire")
	assert.Contains(t, args, "--rm")

	script := args[len(args)-1]
	assert.Contains(t, script, "-t 100")
	assert.Contains(t, script, `_solved.txt`)
	assert.Contains(t, script, "*.p")
	assert.True(t, strings.HasPrefix(script, "for f in "))
}
