package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acharts/acharts/internal/host"
)

func TestDoc_QueryContainer(t *testing.T) {
	doc := host.NewDoc()
	doc.AddContainer(".chart-slot", 120, 40)

	el, ok := doc.QuerySelector(".chart-slot")
	require.True(t, ok)

	w, h := el.Box()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	_, ok = doc.QuerySelector(".missing")
	assert.False(t, ok)
}

func TestDoc_IDAttributeIndexesElement(t *testing.T) {
	doc := host.NewDoc()
	container := doc.AddContainer("#main", 80, 24)

	el := doc.CreateElement("div")
	container.AppendChild(el)
	el.SetAttribute("id", "ac-42")

	got, ok := doc.QuerySelector("#ac-42")
	require.True(t, ok)
	assert.Same(t, el, got)
}

func TestDoc_RemoveDetachesAndUnindexes(t *testing.T) {
	doc := host.NewDoc()
	container := doc.AddContainer("#main", 80, 24)

	el := doc.CreateElement("div")
	container.AppendChild(el)
	el.SetAttribute("id", "ac-7")
	require.Len(t, container.Children(), 1)

	el.Remove()

	_, ok := doc.QuerySelector("#ac-7")
	assert.False(t, ok)
	assert.Empty(t, container.Children())
}

func TestNode_AppendedChildInheritsBox(t *testing.T) {
	doc := host.NewDoc()
	container := doc.AddContainer("#main", 100, 30)

	el := doc.CreateElement("div")
	container.AppendChild(el)

	w, h := el.Box()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
}

func TestNode_ContentRoundTrip(t *testing.T) {
	doc := host.NewDoc()
	el := doc.CreateElement("div")

	el.SetContent("rendered frame")
	assert.Equal(t, "rendered frame", el.Content())
}
