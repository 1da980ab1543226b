// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package gjsonsource_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jinto"
	"github.com/creachadair/jinto/source/gjsonsource"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	// The events from the gjson source match those from the native stream.
	inputs := []string{
		`false`,
		`[]`,
		`{}`,
		`[0, -7, 9223372036854775808, 6.02e23, "y\n", true, null]`,
		`{"a": {"b": ["c", {"d": 1}]}, "e": [], "f": {}}`,
		`{"xé": "😀"}`,
	}
	for _, input := range inputs {
		var want, got jinto.Recorder
		require.NoError(t, jinto.NewStream(strings.NewReader(input)).Parse(&want), "stream %q", input)
		require.NoError(t, gjsonsource.New([]byte(input)).Parse(&got), "gjson %q", input)
		require.Equal(t, want.Events, got.Events, "input %q", input)
	}
}

func TestSelect(t *testing.T) {
	const input = `{
  "user": {"name": "ada", "roles": ["admin", "dev"]},
  "pairs": [[1, "one"], [2, "two"]]
}`
	var roles []string
	src := gjsonsource.New([]byte(input))
	src.Select("user.roles")
	require.NoError(t, jinto.DecodeFrom(src, &roles, nil))
	require.Equal(t, []string{"admin", "dev"}, roles)

	var nums []int
	src.Select("pairs.#.0")
	require.NoError(t, jinto.DecodeFrom(src, &nums, nil))
	require.Equal(t, []int{1, 2}, nums)

	src.Select("user.missing")
	require.ErrorContains(t, src.Parse(new(jinto.Recorder)), "not found")
}

func TestErrors(t *testing.T) {
	var v []int
	err := jinto.DecodeFrom(gjsonsource.New([]byte(`[1, 2`)), &v, nil)
	require.ErrorIs(t, err, gjsonsource.ErrInvalid)

	err = jinto.DecodeFrom(gjsonsource.New([]byte(`[1, "two"]`)), &v, nil)
	require.ErrorIs(t, err, jinto.NotInteger)

	var s struct {
		A int `json:"a"`
	}
	err = jinto.DecodeFrom(gjsonsource.New([]byte(`{"a": 1, "b": 2}`)), &s, nil)
	require.ErrorIs(t, err, jinto.UnknownName)
	require.NoError(t, jinto.DecodeFrom(gjsonsource.New([]byte(`{"a": 1, "b": 2}`)), &s,
		&jinto.Options{UnknownFields: jinto.SkipUnknown}))
	require.Equal(t, 1, s.A)
}

func TestMaxDepth(t *testing.T) {
	const input = `{"a": [[1, [2]]]}`

	src := gjsonsource.New([]byte(input))
	require.NoError(t, src.Parse(new(jinto.Recorder)))

	src.SetMaxDepth(4)
	require.NoError(t, src.Parse(new(jinto.Recorder)))

	src.SetMaxDepth(3)
	require.ErrorContains(t, src.Parse(new(jinto.Recorder)), "maximum depth")

	// A selected value is counted from its own root.
	src.Select("a.0")
	require.NoError(t, src.Parse(new(jinto.Recorder)))
	src.Select("")

	// A non-positive limit restores the default.
	src.SetMaxDepth(0)
	require.NoError(t, src.Parse(new(jinto.Recorder)))
}
