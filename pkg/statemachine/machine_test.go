package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/statemachine"
)

const (
	stateDraft     statemachine.State = "draft"
	statePublished statemachine.State = "published"
	stateArchived  statemachine.State = "archived"

	eventPublish statemachine.Event = "publish"
	eventArchive statemachine.Event = "archive"
)

func TestMachineFire(t *testing.T) {
	t.Parallel()

	machine := statemachine.New(
		statemachine.T(stateDraft, statePublished, eventPublish),
		statemachine.T(statePublished, stateArchived, eventArchive),
	)

	t.Run("valid transition", func(t *testing.T) {
		t.Parallel()

		next, err := machine.Fire(context.Background(), stateDraft, eventPublish, nil)
		require.NoError(t, err)
		assert.Equal(t, statePublished, next)
	})

	t.Run("unknown event from state", func(t *testing.T) {
		t.Parallel()

		next, err := machine.Fire(context.Background(), stateDraft, eventArchive, nil)
		assert.True(t, statemachine.IsNoTransition(err))
		assert.Equal(t, stateDraft, next, "state must not change on failure")
	})

	t.Run("terminal state has no transitions", func(t *testing.T) {
		t.Parallel()

		_, err := machine.Fire(context.Background(), stateArchived, eventPublish, nil)
		assert.True(t, statemachine.IsNoTransition(err))
	})
}

func TestMachineGuards(t *testing.T) {
	t.Parallel()

	allow := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
		return data == "ok"
	}
	machine := statemachine.New(statemachine.Transition{
		From:   stateDraft,
		To:     statePublished,
		Event:  eventPublish,
		Guards: []statemachine.Guard{allow},
	})

	t.Run("guard passes", func(t *testing.T) {
		t.Parallel()

		next, err := machine.Fire(context.Background(), stateDraft, eventPublish, "ok")
		require.NoError(t, err)
		assert.Equal(t, statePublished, next)
	})

	t.Run("guard rejects", func(t *testing.T) {
		t.Parallel()

		next, err := machine.Fire(context.Background(), stateDraft, eventPublish, "nope")
		assert.True(t, statemachine.IsRejected(err))
		assert.Equal(t, stateDraft, next)
	})

	t.Run("first passing candidate wins", func(t *testing.T) {
		t.Parallel()

		multi := statemachine.New(
			statemachine.Transition{
				From: stateDraft, To: stateArchived, Event: eventPublish,
				Guards: []statemachine.Guard{func(context.Context, statemachine.State, statemachine.Event, any) bool { return false }},
			},
			statemachine.T(stateDraft, statePublished, eventPublish),
		)
		next, err := multi.Fire(context.Background(), stateDraft, eventPublish, nil)
		require.NoError(t, err)
		assert.Equal(t, statePublished, next)
	})
}

func TestMachineActions(t *testing.T) {
	t.Parallel()

	t.Run("action runs before state change", func(t *testing.T) {
		t.Parallel()

		var ran bool
		machine := statemachine.New(statemachine.Transition{
			From: stateDraft, To: statePublished, Event: eventPublish,
			Actions: []statemachine.Action{func(context.Context, statemachine.State, statemachine.State, statemachine.Event, any) error {
				ran = true
				return nil
			}},
		})

		next, err := machine.Fire(context.Background(), stateDraft, eventPublish, nil)
		require.NoError(t, err)
		assert.Equal(t, statePublished, next)
		assert.True(t, ran)
	})

	t.Run("action error aborts transition", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		machine := statemachine.New(statemachine.Transition{
			From: stateDraft, To: statePublished, Event: eventPublish,
			Actions: []statemachine.Action{func(context.Context, statemachine.State, statemachine.State, statemachine.Event, any) error {
				return boom
			}},
		})

		next, err := machine.Fire(context.Background(), stateDraft, eventPublish, nil)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, stateDraft, next)
	})
}

func TestMachineCanFire(t *testing.T) {
	t.Parallel()

	machine := statemachine.New(
		statemachine.T(stateDraft, statePublished, eventPublish),
	)

	assert.True(t, machine.CanFire(context.Background(), stateDraft, eventPublish, nil))
	assert.False(t, machine.CanFire(context.Background(), statePublished, eventPublish, nil))
}

func TestNewPanicsOnInvalidTransition(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		statemachine.New(statemachine.T("", statePublished, eventPublish))
	})
}
