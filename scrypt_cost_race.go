//go:build race

package auth

func scryptCost() int {
	// Reduce cost for race-enabled builds so test suites can run with strict timeouts.
	return 4096
}
