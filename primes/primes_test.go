package primes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvtable/kvtable/primes"
)

func TestNextPrime(t *testing.T) {
	assert.Equal(t, uint32(5), primes.NextPrime(0))
	assert.Equal(t, uint32(5), primes.NextPrime(1))
	assert.Equal(t, uint32(5), primes.NextPrime(5))
	assert.Equal(t, uint32(11), primes.NextPrime(6))
	assert.Equal(t, uint32(17), primes.NextPrime(17))
	assert.Equal(t, uint32(29), primes.NextPrime(18))
	assert.Equal(t, uint32(4294967291), primes.NextPrime(4294967291))
	assert.Equal(t, uint32(4294967291), primes.NextPrime(4294967290))
	// requesting past the ceiling saturates at the largest known prime.
	assert.Equal(t, uint32(4294967291), primes.NextPrime(4294967295))
}

func TestLog2Ceil(t *testing.T) {
	assert.Equal(t, uint32(0), primes.Log2Ceil(1))
	assert.Equal(t, uint32(1), primes.Log2Ceil(2))
	assert.Equal(t, uint32(2), primes.Log2Ceil(3))
	assert.Equal(t, uint32(2), primes.Log2Ceil(4))
	assert.Equal(t, uint32(3), primes.Log2Ceil(5))
	assert.Equal(t, uint32(5), primes.Log2Ceil(17))
	assert.Equal(t, uint32(9), primes.Log2Ceil(389))
}
