//go:build !race

package auth

func scryptCost() int {
	// 2^15 iterations, ~64MB working set with r=8.
	return 32768
}
