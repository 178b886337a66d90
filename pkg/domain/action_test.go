package domain_test

import (
	"testing"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestAction_Types(t *testing.T) {
	inc := domain.NewAction("INCREMENT", 3)
	assert.Equal(t, "INCREMENT", inc.ActionType())
	assert.Equal(t, domain.ActionInit, domain.TypeOf(domain.Init))
	assert.Equal(t, "", domain.TypeOf(nil))
}

func TestPayloadOf(t *testing.T) {
	var a domain.Action = domain.NewAction("INCREMENT", 3)

	n, ok := domain.PayloadOf[int](a)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = domain.PayloadOf[string](a)
	assert.False(t, ok, "payload type must match exactly")

	_, ok = domain.PayloadOf[int](domain.Bare{Kind: "TOGGLE_ACTIVATE"})
	assert.False(t, ok)

	ptr := &domain.Typed[int]{Kind: "INCREMENT", Payload: 5}
	n, ok = domain.PayloadOf[int](ptr)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestPure(t *testing.T) {
	r := domain.Pure(func(s int, a domain.Action) int { return s + 1 })
	got, err := r(1, domain.Init)
	assert.NoError(t, err)
	assert.Equal(t, 2, got)
}
