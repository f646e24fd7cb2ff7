package lead

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      FormData
		invalid []string
	}{
		{"complete", jane(), nil},
		{"optional fields empty", FormData{Name: "A", Email: "a@b.co", Phone: "1"}, nil},
		{"missing everything", FormData{}, []string{"name", "email", "phone"}},
		{"whitespace only", FormData{Name: "  ", Email: "a@b.co", Phone: "\t"}, []string{"name", "phone"}},
		{"bad email", FormData{Name: "A", Email: "a@b", Phone: "1"}, []string{"email"}},
		{"email with space", FormData{Name: "A", Email: "a b@c.de", Phone: "1"}, []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrInvalid))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.invalid))
			for _, f := range tt.invalid {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestKindSource(t *testing.T) {
	assert.Equal(t, "brandae_contact_form", KindContact.Source())
	assert.Equal(t, "brandae_demo_form", KindDemo.Source())

	k, err := ParseKind("demo_request")
	require.NoError(t, err)
	assert.Equal(t, KindDemo, k)
	_, err = ParseKind("other")
	assert.Error(t, err)
}

func TestLifecycleTransitions(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateSubmitting))
	assert.True(t, CanTransition(StateSubmitting, StateFailed))
	assert.True(t, CanTransition(StateDispatching, StateSettled))
	assert.False(t, CanTransition(StateIdle, StatePersisted))
	assert.False(t, CanTransition(StatePersisted, StateFailed))
	assert.False(t, CanTransition(StateFailed, StateSubmitting))
	assert.False(t, CanTransition(StateSettled, StateDispatching))
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateDispatching.Terminal())

	a := newAttempt()
	require.NoError(t, a.advance(StateSubmitting))
	assert.Error(t, a.advance(StateSettled))
}
