package tx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/tx"
)

type inlineManager struct{ calls int }

func (m *inlineManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type recordingEffect struct {
	name string
	log  *[]string
	fail bool
}

func (e recordingEffect) Apply(context.Context) error {
	*e.log = append(*e.log, "apply "+e.name)
	if e.fail {
		return errors.New("apply failed")
	}
	return nil
}

func (e recordingEffect) Compensate(context.Context) error {
	*e.log = append(*e.log, "compensate "+e.name)
	return nil
}

func TestReplace_CompensatesBeforeApplying(t *testing.T) {
	var log []string
	m := &inlineManager{}

	err := tx.Replace(context.Background(), m, recordingEffect{name: "old", log: &log},
		func(context.Context) (tx.Compensable, error) {
			log = append(log, "persist")
			return recordingEffect{name: "new", log: &log}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"compensate old", "persist", "apply new"}, log)
	assert.Equal(t, 1, m.calls)
}

func TestReplace_NilSides(t *testing.T) {
	var log []string
	m := &inlineManager{}

	require.NoError(t, tx.Replace(context.Background(), m, nil,
		func(context.Context) (tx.Compensable, error) {
			return recordingEffect{name: "created", log: &log}, nil
		}))
	require.NoError(t, tx.Replace(context.Background(), m, recordingEffect{name: "deleted", log: &log},
		func(context.Context) (tx.Compensable, error) { return nil, nil }))

	assert.Equal(t, []string{"apply created", "compensate deleted"}, log)
}

func TestReplace_PropagatesApplyError(t *testing.T) {
	var log []string

	err := tx.Replace(context.Background(), &inlineManager{}, nil,
		func(context.Context) (tx.Compensable, error) {
			return recordingEffect{name: "bad", log: &log, fail: true}, nil
		})

	assert.ErrorContains(t, err, "apply failed")
}
