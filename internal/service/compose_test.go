package service

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/model"
)

type mapLookup struct {
	korean map[string]string
	roman  map[string]string
}

func (m mapLookup) Lookup(name string) (string, string) {
	korean, ok := m.korean[name]
	if !ok {
		korean = name
	}
	return korean, m.roman[name]
}

func det(class string, conf float64, x1, y1, x2, y2 float64) model.Detection {
	return model.Detection{Class: class, Confidence: conf, Box: model.Box{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

func TestCompose_CupDogScenario(t *testing.T) {
	table := mapLookup{
		korean: map[string]string{"cup": "컵"},
		roman:  map[string]string{"cup": "keop"},
	}

	objects, total := Compose([]model.Detection{
		det("cup", 0.92, 1, 2, 3, 4),
		det("dog", 0.5, 5, 6, 7, 8),
	}, table)

	require.Equal(t, 2, total)
	require.Equal(t, []model.EnrichedDetection{
		{Name: "cup", Korean: "컵", Romanization: "keop", Confidence: 0.92, BBox: model.BBox{X1: 1, Y1: 2, X2: 3, Y2: 4}},
		{Name: "dog", Korean: "dog", Romanization: "", Confidence: 0.5, BBox: model.BBox{X1: 5, Y1: 6, X2: 7, Y2: 8}},
	}, objects)
}

func TestCompose_Empty(t *testing.T) {
	objects, total := Compose(nil, mapLookup{})
	require.Equal(t, 0, total)
	require.NotNil(t, objects)
	require.Empty(t, objects)
}

func TestCompose_RoundsConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.8734, 0.87},
		{0.876, 0.88},
		{0.5, 0.5},
		{1, 1},
		{0.125, 0.12},
		{0.999, 1},
		{0.004, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			objects, _ := Compose([]model.Detection{det("cup", tt.in, 0, 0, 1, 1)}, mapLookup{})
			require.Equal(t, tt.want, objects[0].Confidence)
		})
	}
}

func TestCompose_TruncatesBox(t *testing.T) {
	objects, _ := Compose([]model.Detection{det("cup", 0.9, 10.9, 20.1, 30.999, 40.5)}, mapLookup{})
	require.Equal(t, model.BBox{X1: 10, Y1: 20, X2: 30, Y2: 40}, objects[0].BBox)
}

func TestCompose_SortsDescendingAndKeepsAll(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n <= MaxObjects; n++ {
		var input []model.Detection
		for i := 0; i < n; i++ {
			input = append(input, det(fmt.Sprintf("c%d", i), rng.Float64(), 0, 0, 1, 1))
		}

		objects, total := Compose(input, mapLookup{})
		require.Equal(t, n, total)
		require.Len(t, objects, n)
		require.True(t, sort.SliceIsSorted(objects, func(i, j int) bool {
			return objects[i].Confidence > objects[j].Confidence
		}))

		seen := make(map[string]bool)
		for _, obj := range objects {
			seen[obj.Name] = true
		}
		for _, in := range input {
			require.True(t, seen[in.Class], in.Class)
		}
	}
}

func TestCompose_CapsAtTen(t *testing.T) {
	var input []model.Detection
	for i := 0; i < 25; i++ {
		input = append(input, det(fmt.Sprintf("c%d", i), float64(i)/100, 0, 0, 1, 1))
	}

	objects, total := Compose(input, mapLookup{})
	require.Equal(t, 25, total)
	require.Len(t, objects, MaxObjects)
	require.Equal(t, "c24", objects[0].Name)
	require.Equal(t, "c15", objects[MaxObjects-1].Name)
}

func TestCompose_TiesKeepInputOrder(t *testing.T) {
	objects, _ := Compose([]model.Detection{
		det("a", 0.701, 0, 0, 1, 1),
		det("b", 0.9, 0, 0, 1, 1),
		det("c", 0.699, 0, 0, 1, 1),
	}, mapLookup{})

	require.Equal(t, []string{"b", "a", "c"}, []string{objects[0].Name, objects[1].Name, objects[2].Name})
}
