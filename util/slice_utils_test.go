package util

import "testing"

func TestStack(t *testing.T) {
	stack := make([]int, 0)

	Push(&stack, 1)
	Push(&stack, 2)
	if got := *Last(stack); got != 2 {
		t.Fatalf("Last = %d, want 2", got)
	}

	*Last(stack) = 5
	if stack[1] != 5 {
		t.Fatalf("Last did not point into the slice: %v", stack)
	}

	Pop(&stack)
	if len(stack) != 1 || *Last(stack) != 1 {
		t.Fatalf("stack after Pop = %v", stack)
	}
}
