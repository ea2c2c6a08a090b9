package allocator

import "fmt"

func ExampleBuddy() {
	arena := make([]byte, 512*1024)
	a, _ := NewBuddy(arena, nil)

	b1 := a.Alloc(1, 1024) // fits in 2KB block
	b2 := a.Alloc(8, 1024) // needs 16KB block due to 8-byte header

	fmt.Printf("b1: len=%d cap=%d\n", len(b1), cap(b1))
	fmt.Printf("b2: len=%d cap=%d\n", len(b2), cap(b2))

	b1 = a.Resize(b1, 2, 1000) // still fits
	fmt.Printf("b1: len=%d cap=%d\n", len(b1), cap(b1))

	a.Free(b1)
	a.Free(b2)

	// Output:
	// b1: len=1024 cap=2040
	// b2: len=8192 cap=16376
	// b1: len=2000 cap=2040
}
