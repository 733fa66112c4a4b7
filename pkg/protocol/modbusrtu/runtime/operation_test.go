package runtime

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseOperationSelector(t *testing.T) {
	op, err := ParseOperationSelector("ReadHoldingRegisters")
	require.NoError(t, err)
	assert.Equal(t, ReadHoldingRegisters, op)

	op, err = ParseOperationSelector("WriteFloatArrayAsync")
	require.NoError(t, err)
	assert.Equal(t, WriteFloatArray, op)

	_, err = ParseOperationSelector("ReadBoilerData")
	assert.Error(t, err)
}

func TestOperationSelectorGroups(t *testing.T) {
	reads, singles, arrays := 0, 0, 0
	for op := range OperationSelectorToString {
		n := 0
		if op.IsRead() {
			reads++
			n++
		}
		if op.IsSingleWrite() {
			singles++
			n++
		}
		if op.IsArrayWrite() {
			arrays++
			n++
		}
		assert.Equal(t, 1, n, op.String())
	}
	assert.Equal(t, 48, reads)
	assert.Equal(t, 14, singles)
	assert.Equal(t, 12, arrays)
	assert.Len(t, Operations(), reads+singles+arrays)
}

func TestOperationSelectorJSON(t *testing.T) {
	marshal, err := json.Marshal(struct {
		Operation OperationSelector `json:"operation"`
	}{ReadOnlyULong})
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation":"ReadOnlyULong"}`, string(marshal))

	var op OperationSelector
	require.NoError(t, json.Unmarshal([]byte(`"WriteCoils"`), &op))
	assert.Equal(t, WriteCoils, op)
	assert.Error(t, json.Unmarshal([]byte(`"Nope"`), &op))

	_, err = json.Marshal(OperationSelector(0))
	assert.Error(t, err)
	assert.Equal(t, "OperationSelector(0)", OperationSelector(0).String())
}

func TestSlaveError(t *testing.T) {
	err := &SlaveError{Code: ExceptionIllegalDataAddress}
	assert.Equal(t, "slave exception 0x02 (illegal data address)", err.Error())
	assert.Contains(t, (&SlaveError{Code: 0x7F}).Error(), "unknown exception")
	assert.ErrorIs(t, ErrNotConnected, ErrInvalidOperation)
}
