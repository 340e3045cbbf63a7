package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acharts/acharts/internal/params"
)

func validParams() map[string]any {
	return map[string]any{
		"selector": ".slot",
		"title":    "loss",
		"content": map[string]any{
			"data_sets": []any{
				map[string]any{"name": "b", "values": []any{2.0, 8.0}},
				map[string]any{"name": "a", "values": []any{1.0, 4.0}},
			},
		},
	}
}

func TestFromRaw_ValidMap(t *testing.T) {
	cfg, err := params.ConfigFromRaw(nil)
	require.NoError(t, err)

	p, err := params.FromRaw(validParams(), cfg)
	require.NoError(t, err)

	assert.Equal(t, ".slot", p.Selector)
	assert.Equal(t, "loss", p.Title)
	require.Len(t, p.Content.DataSets, 2)
	assert.Equal(t, 1.0, p.Content.Min)
	assert.Equal(t, 8.0, p.Content.Max)
	assert.Equal(t, params.DataSetMeta{Min: 2, Max: 8}, p.Content.DataSets[0].Meta)
}

func TestFromRaw_ValidJSONText(t *testing.T) {
	cfg, err := params.ConfigFromRaw(nil)
	require.NoError(t, err)

	p, err := params.FromRaw(`{
		"selector": "#mount",
		"content": {"data_sets": [{"name": "s", "values": [1, 10, 100]}]}
	}`, cfg)
	require.NoError(t, err)

	assert.Equal(t, "#mount", p.Selector)
	assert.Equal(t, params.DataSetMeta{Min: 1, Max: 100}, p.Content.DataSets[0].Meta)
}

func TestFromRaw_Errors(t *testing.T) {
	cfg, err := params.ConfigFromRaw(nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{
			name:    "missing selector",
			mutate:  func(m map[string]any) { delete(m, "selector") },
			wantMsg: "selector is required",
		},
		{
			name:    "empty selector",
			mutate:  func(m map[string]any) { m["selector"] = "" },
			wantMsg: "selector must not be empty",
		},
		{
			name:    "content not object",
			mutate:  func(m map[string]any) { m["content"] = "nope" },
			wantMsg: "content must be an object",
		},
		{
			name: "empty data sets",
			mutate: func(m map[string]any) {
				m["content"] = map[string]any{"data_sets": []any{}}
			},
			wantMsg: "content.data_sets must not be empty",
		},
		{
			name: "nameless data set",
			mutate: func(m map[string]any) {
				m["content"] = map[string]any{
					"data_sets": []any{map[string]any{"values": []any{1.0}}},
				}
			},
			wantMsg: "data set 0 is missing a name",
		},
		{
			name: "valueless data set",
			mutate: func(m map[string]any) {
				m["content"] = map[string]any{
					"data_sets": []any{map[string]any{"name": "x", "values": []any{}}},
				}
			},
			wantMsg: `data set "x" has no values`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validParams()
			tt.mutate(payload)

			_, err := params.FromRaw(payload, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromRaw_RejectsNonFiniteValues(t *testing.T) {
	cfg, err := params.ConfigFromRaw(nil)
	require.NoError(t, err)

	// simplejsonext parses the NaN literal; validation must still reject
	// it.
	_, err = params.FromRaw(`{
		"selector": ".slot",
		"content": {"data_sets": [{"name": "s", "values": [1, NaN]}]}
	}`, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")
}

func TestSortDataSets(t *testing.T) {
	cfg, err := params.ConfigFromRaw(nil)
	require.NoError(t, err)
	p, err := params.FromRaw(validParams(), cfg)
	require.NoError(t, err)

	p.Content.SortDataSets(params.SortByName)
	assert.Equal(t, "a", p.Content.DataSets[0].Name)

	p.Content.SortDataSets(params.SortByMax)
	assert.Equal(t, "a", p.Content.DataSets[0].Name)

	p.Content.SortDataSets(params.SortByMin)
	assert.Equal(t, "a", p.Content.DataSets[0].Name)
}
