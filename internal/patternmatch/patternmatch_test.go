package patternmatch_test

import (
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/patternmatch"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreDay(t *testing.T) {
	p := registry.WorkPattern{Name: "早出", WorkLocation: station.Kawaguchiko}

	tests := []struct {
		name string
		day  patternmatch.Day
		want float64
	}{
		{"exact code", patternmatch.Day{Code: "早出", Location: station.Otsuki}, 1.0},
		{"code contains name", patternmatch.Day{Code: "早出2", Location: station.Otsuki}, 0.8},
		{"name contains code", patternmatch.Day{Code: "早", Location: station.Otsuki}, 0.8},
		{"exact location", patternmatch.Day{Code: "日勤", Location: station.Kawaguchiko}, 0.6},
		{"location substring", patternmatch.Day{Code: "日勤", Location: "河口湖"}, 0.4},
		{"empty code skips code rules", patternmatch.Day{Code: "", Location: station.Otsuki}, 0},
		{"nothing", patternmatch.Day{Code: "公休", Location: "公休"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patternmatch.ScoreDay(tt.day, p))
		})
	}
}

func TestMatch(t *testing.T) {
	patterns := []registry.WorkPattern{
		{Name: "日勤", WorkLocation: station.Otsuki},
		{Name: "早出", WorkLocation: station.Kawaguchiko},
		{Name: "遅番", WorkLocation: station.Otsuki},
	}
	person := &registry.Person{Name: "山田"}

	t.Run("matched", func(t *testing.T) {
		days := []patternmatch.Day{
			{Code: "早出", Location: station.Kawaguchiko},
			{Code: "早出", Location: station.Kawaguchiko},
			{Code: "公休", Location: "公休"},
			{Code: "早出", Location: station.Kawaguchiko},
			{Code: "早出", Location: station.Kawaguchiko},
		}
		res := patternmatch.Match("山田", person, days, patterns)
		assert.Equal(t, patternmatch.StatusMatched, res.Status)
		assert.InDelta(t, 0.8, res.MatchScore, 1e-9)
		require.NotNil(t, res.BestPattern)
		assert.Equal(t, "早出", res.BestPattern.Name)
		assert.Equal(t, "高い一致度 (80%)", res.Message)
		assert.Equal(t, "早出", res.Patterns[0].Pattern.Name)
	})

	t.Run("tie keeps registration order", func(t *testing.T) {
		days := []patternmatch.Day{{Code: "出張", Location: station.Otsuki}}
		res := patternmatch.Match("山田", person, days, patterns)
		assert.Equal(t, patternmatch.StatusPartialMatch, res.Status)
		require.NotNil(t, res.BestPattern)
		assert.Equal(t, "日勤", res.BestPattern.Name)
		assert.Equal(t, "部分的一致 (60%)", res.Message)

		// stable sort keeps 日勤 ahead of 遅番
		assert.Equal(t, "日勤", res.Patterns[0].Pattern.Name)
		assert.Equal(t, "遅番", res.Patterns[1].Pattern.Name)
		assert.Equal(t, "早出", res.Patterns[2].Pattern.Name)
	})

	t.Run("no match", func(t *testing.T) {
		days := []patternmatch.Day{{Code: "公休", Location: "公休"}}
		res := patternmatch.Match("山田", person, days, patterns)
		assert.Equal(t, patternmatch.StatusNoMatch, res.Status)
		assert.Nil(t, res.BestPattern)
		assert.Equal(t, "パターン不一致 (0%)", res.Message)
	})

	t.Run("unregistered", func(t *testing.T) {
		res := patternmatch.Match("鈴木", nil, []patternmatch.Day{{Code: "早出"}}, patterns)
		assert.Equal(t, patternmatch.StatusNoRegistration, res.Status)
		assert.Equal(t, "人員登録なし", res.Message)
	})

	t.Run("no days", func(t *testing.T) {
		res := patternmatch.Match("山田", person, nil, patterns)
		assert.Equal(t, patternmatch.StatusNoRegistration, res.Status)
	})
}

func TestClassifyAndSummarize(t *testing.T) {
	assert.Equal(t, patternmatch.StatusMatched, patternmatch.Classify(0.8))
	assert.Equal(t, patternmatch.StatusPartialMatch, patternmatch.Classify(0.5))
	assert.Equal(t, patternmatch.StatusNoMatch, patternmatch.Classify(0.49))
	assert.Equal(t, "照合不可", patternmatch.Message(patternmatch.StatusNoRegistration, 0))

	s := patternmatch.Summarize([]patternmatch.Result{
		{Status: patternmatch.StatusMatched},
		{Status: patternmatch.StatusNoMatch},
		{Status: patternmatch.StatusNoRegistration},
		{Status: patternmatch.StatusMatched},
	})
	assert.Equal(t, patternmatch.Summary{Matched: 2, NoMatch: 1, NoRegistration: 1}, s)
}
