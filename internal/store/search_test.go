package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidatePoolSize(t *testing.T) {
	cases := []struct {
		limit int
		want  int
	}{
		{1, 100},
		{5, 100},
		{10, 100},
		{11, 110},
		{25, 250},
		{50, 500},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CandidatePoolSize(tc.limit),
			"limit=%d", tc.limit)
	}
}

func TestCandidatePoolSizeAlwaysExceedsLimit(t *testing.T) {
	for limit := 1; limit <= 50; limit++ {
		pool := CandidatePoolSize(limit)
		assert.Greater(t, pool, limit)
		assert.GreaterOrEqual(t, pool, 100)
	}
}
