package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice_States(t *testing.T) {
	var zero Slice[[]int]
	assert.Equal(t, KindIdle, zero.Kind())
	assert.False(t, zero.IsLoaded())

	loaded := Loaded([]int{1, 2})
	data, ok := loaded.Get()
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, data)
	assert.Empty(t, loaded.Reason())

	failed := Failed[[]int]("backend down")
	data, ok = failed.Get()
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.True(t, failed.IsFailed())
	assert.Equal(t, "backend down", failed.Reason())

	assert.Equal(t, KindLoading, Loading[string]().Kind())
}

func TestSlice_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "loaded", in: Loaded(map[string]int{"xp": 10}), want: `{"kind":"loaded","data":{"xp":10}}`},
		{name: "failed", in: Failed[int]("nope"), want: `{"kind":"failed","reason":"nope"}`},
		{name: "idle", in: Idle[int](), want: `{"kind":"idle"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}
