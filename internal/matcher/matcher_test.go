package matcher_test

import (
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() registry.Snapshot {
	return registry.NewSnapshot(
		[]registry.Person{
			{Name: "山田 太郎", HasPrivateCar: true},
			{Name: "田中　花子"},
			{Name: "佐藤  次郎"},
		},
		[]registry.WorkPattern{
			{Name: "日勤", WorkLocation: station.Otsuki},
			{Name: "早出", WorkLocation: station.Kawaguchiko, TrainCommute: registry.TrainPossible},
			{Name: "日勤A", WorkLocation: station.Fujisan},
		},
		registry.DefaultSettings(),
	)
}

func TestFindPerson(t *testing.T) {
	snap := snapshot()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"raw equals registered", "山田 太郎", "山田 太郎"},
		{"trimmed raw", "  山田 太郎 ", "山田 太郎"},
		{"normalized equals registered raw", "山田　太郎", "山田 太郎"},
		{"normalized equals normalized registered", "田中 花子", "田中　花子"},
		{"registered with double space", "佐藤 次郎", "佐藤  次郎"},
		{"unknown", "鈴木", ""},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := matcher.FindPerson(snap, tt.raw)
			if tt.want == "" {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, matcher.StatusUnregistered, matcher.StatusOf(nil))
	assert.Equal(t, matcher.StatusOK, matcher.StatusOf(&registry.Person{HasPrivateCar: true}))
	assert.Equal(t, matcher.StatusNoCar, matcher.StatusOf(&registry.Person{}))
}

func TestFindWorkPattern(t *testing.T) {
	snap := snapshot()

	t.Run("exact code", func(t *testing.T) {
		p := matcher.FindWorkPattern(snap, "", "早出")
		require.NotNil(t, p)
		assert.Equal(t, station.Kawaguchiko, p.WorkLocation)
	})

	t.Run("substring resolves to registration order", func(t *testing.T) {
		p := matcher.FindWorkPattern(snap, "", "日勤A")
		require.NotNil(t, p)
		assert.Equal(t, "日勤", p.Name)
	})

	t.Run("code contained in pattern name", func(t *testing.T) {
		p := matcher.FindWorkPattern(snap, "", "早")
		require.NotNil(t, p)
		assert.Equal(t, "早出", p.Name)
	})

	t.Run("falls back to location", func(t *testing.T) {
		p := matcher.FindWorkPattern(snap, station.Fujisan, "公休")
		require.NotNil(t, p)
		assert.Equal(t, "日勤A", p.Name)
	})

	t.Run("blank code uses location only", func(t *testing.T) {
		p := matcher.FindWorkPattern(snap, station.Kawaguchiko, "  ")
		require.NotNil(t, p)
		assert.Equal(t, "早出", p.Name)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, matcher.FindWorkPattern(snap, station.Highland, "公休"))
	})
}
