package memory_test

import (
	"testing"

	"example.com/exercisetracker/internal/persistence/memory"
	"example.com/exercisetracker/internal/testsupport"
)

func TestRepositoryContract(t *testing.T) {
	testsupport.RunRepositoryContract(t, memory.NewRepository())
}
