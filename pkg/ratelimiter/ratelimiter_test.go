package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_NilClientAllowsEverything(t *testing.T) {
	l := New(nil)
	user := uuid.New()

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Acquire(context.Background(), user, "post", time.Minute))
	}
	l.Release(context.Background(), user, "post")
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("018f0000-0000-7000-8000-000000000001")
	assert.Equal(t, "rate_limit:user:018f0000-0000-7000-8000-000000000001:comment", key(id, "comment"))
}
