package mapper

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID    uint
	Value string
}

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{}, MapSlice([]int{}, strconv.Itoa))
	assert.Equal(t, []string{"1", "2", "3"}, MapSlice([]int{1, 2, 3}, strconv.Itoa))
}

func TestMapSliceWithError(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []int
		wantErr bool
	}{
		{name: "nil input returns nil", input: nil, want: nil},
		{name: "empty slice returns empty slice", input: []string{}, want: []int{}},
		{name: "successful mapping", input: []string{"1", "2"}, want: []int{1, 2}},
		{name: "stops at first error", input: []string{"1", "x", "3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapSliceWithError(tt.input, strconv.Atoi)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapRowsWithID(t *testing.T) {
	rows := []testRow{{ID: 1, Value: "a"}, {ID: 2, Value: "b"}}
	getID := func(r *testRow) uint { return r.ID }

	got, err := MapRowsWithID(rows, func(r *testRow) (string, error) {
		return fmt.Sprintf("%d:%s", r.ID, r.Value), nil
	}, getID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1:a", "2:b"}, got)

	empty, err := MapRowsWithID(nil, func(r *testRow) (string, error) { return r.Value, nil }, getID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	cause := errors.New("bad status")
	_, err = MapRowsWithID(rows, func(r *testRow) (string, error) {
		if r.ID == 2 {
			return "", cause
		}
		return r.Value, nil
	}, getID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "row ID 2")
}
