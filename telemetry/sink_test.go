package telemetry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/types"
)

func TestRingSink_Bounded(t *testing.T) {
	sink := NewRingSink(3)

	for i := 0; i < 5; i++ {
		sink.Record(&types.ClassifiedError{
			Kind: types.ErrKindNetwork,
			Raw:  fmt.Sprintf("err-%d", i),
		}, nil)
	}

	entries := sink.Entries()
	require.Equal(t, 3, len(entries))
	require.Equal(t, "err-2", entries[0].Err.Raw)
	require.Equal(t, "err-4", entries[2].Err.Raw)
}

func TestRingSink_IgnoresNil(t *testing.T) {
	sink := NewRingSink(2)
	sink.Record(nil, nil)
	require.Equal(t, 0, len(sink.Entries()))
}

func TestRingSink_KeepsRawMessage(t *testing.T) {
	sink := NewRingSink(2)
	sink.Record(&types.ClassifiedError{Kind: types.ErrKindRpc}, fmt.Errorf("boom"))

	entries := sink.Entries()
	require.Equal(t, 1, len(entries))
	require.Equal(t, "boom", entries[0].Raw)
}
