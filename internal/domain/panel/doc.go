// Package panel holds the single aggregate of operator-panel state.
//
// One State is owned by the cycle scheduler and mutated only from its
// goroutine; other goroutines see published copies.
package panel
