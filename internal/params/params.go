// Package params parses and validates the raw payloads a host hands to the
// chart manager, and models the chart content they describe.
package params

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wandb/simplejsonext"
)

// Sort keys accepted for sort_data_sets_by.
const (
	SortByName = "name"
	SortByMin  = "min"
	SortByMax  = "max"
)

// DataSetMeta carries the precomputed value bounds of one data set.
type DataSetMeta struct {
	Min, Max float64
}

// DataSet is one named series of raw values.
type DataSet struct {
	Name   string
	Values []float64
	Meta   DataSetMeta
}

// Content is the full data content of one chart: every data set plus the
// global value bounds across all of them.
type Content struct {
	DataSets []*DataSet
	Min, Max float64
}

// SortDataSets orders the data sets by the given key. Unknown keys leave
// the caller-supplied order untouched.
func (c *Content) SortDataSets(by string) {
	switch by {
	case SortByName:
		sort.SliceStable(c.DataSets, func(i, j int) bool {
			return c.DataSets[i].Name < c.DataSets[j].Name
		})
	case SortByMin:
		sort.SliceStable(c.DataSets, func(i, j int) bool {
			return c.DataSets[i].Meta.Min < c.DataSets[j].Meta.Min
		})
	case SortByMax:
		sort.SliceStable(c.DataSets, func(i, j int) bool {
			return c.DataSets[i].Meta.Max < c.DataSets[j].Meta.Max
		})
	}
}

// ChartParams is the validated form of a chart-creation parameter payload.
type ChartParams struct {
	// Selector locates the container element in the host document. After
	// creation the manager replaces it with the generated wrapper
	// selector.
	Selector string

	// Title is an optional display title.
	Title string

	Content *Content
}

// FromRaw validates a raw parameter payload.
//
// The payload is host-native: JSON text or bytes, or an already-decoded
// map. Shape:
//
//	{
//	  "selector": ".slot",
//	  "title": "loss",
//	  "content": {"data_sets": [{"name": "a", "values": [1, 2]}]}
//	}
func FromRaw(raw any, cfg *ChartConfig) (*ChartParams, error) {
	obj, err := toObject(raw)
	if err != nil {
		return nil, err
	}

	selector, err := stringField(obj, "selector")
	if err != nil {
		return nil, err
	}
	if selector == "" {
		return nil, errors.New("selector must not be empty")
	}

	title, _ := obj["title"].(string)

	contentRaw, ok := obj["content"].(map[string]any)
	if !ok {
		return nil, errors.New("content must be an object")
	}
	content, err := contentFrom(contentRaw)
	if err != nil {
		return nil, err
	}

	return &ChartParams{
		Selector: selector,
		Title:    title,
		Content:  content,
	}, nil
}

func contentFrom(obj map[string]any) (*Content, error) {
	rawSets, ok := obj["data_sets"].([]any)
	if !ok {
		return nil, errors.New("content.data_sets must be an array")
	}
	if len(rawSets) == 0 {
		return nil, errors.New("content.data_sets must not be empty")
	}

	content := &Content{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}
	for i, rawSet := range rawSets {
		setObj, ok := rawSet.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data set %d must be an object", i)
		}
		ds, err := dataSetFrom(i, setObj)
		if err != nil {
			return nil, err
		}
		content.DataSets = append(content.DataSets, ds)
		content.Min = math.Min(content.Min, ds.Meta.Min)
		content.Max = math.Max(content.Max, ds.Meta.Max)
	}
	return content, nil
}

func dataSetFrom(index int, obj map[string]any) (*DataSet, error) {
	name, _ := obj["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("data set %d is missing a name", index)
	}

	rawValues, ok := obj["values"].([]any)
	if !ok || len(rawValues) == 0 {
		return nil, fmt.Errorf("data set %q has no values", name)
	}

	ds := &DataSet{
		Name:   name,
		Values: make([]float64, 0, len(rawValues)),
		Meta: DataSetMeta{
			Min: math.Inf(1),
			Max: math.Inf(-1),
		},
	}
	for i, rawValue := range rawValues {
		v, ok := toFloat(rawValue)
		if !ok {
			return nil, fmt.Errorf("data set %q: value %d is not a number", name, i)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("data set %q: value %d is not finite", name, i)
		}
		ds.Values = append(ds.Values, v)
		ds.Meta.Min = math.Min(ds.Meta.Min, v)
		ds.Meta.Max = math.Max(ds.Meta.Max, v)
	}
	return ds, nil
}

// toObject decodes a host-native payload into a map.
//
// JSON text is decoded with simplejsonext, which tolerates the NaN and
// Infinity literals that commonly leak into chart payloads.
func toObject(raw any) (map[string]any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, errors.New("payload is missing")
	case map[string]any:
		return x, nil
	case string:
		return objectFromJSON(x)
	case []byte:
		return objectFromJSON(string(x))
	default:
		return nil, fmt.Errorf("payload has unsupported type %T", raw)
	}
}

func objectFromJSON(text string) (map[string]any, error) {
	obj, err := simplejsonext.UnmarshalObjectString(text)
	if err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %v", err)
	}
	return obj, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

// toFloat accepts the numeric types simplejsonext and plain decoding
// produce.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
