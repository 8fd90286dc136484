package station_test

import (
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviate(t *testing.T) {
	t.Run("first contained token wins", func(t *testing.T) {
		loc, ok := station.Abbreviate("大月早番")
		assert.True(t, ok)
		assert.Equal(t, station.Otsuki, loc)
	})

	t.Run("HL and ハイ map to highland", func(t *testing.T) {
		loc, _ := station.Abbreviate("HL日勤")
		assert.Equal(t, station.Highland, loc)
		loc, _ = station.Abbreviate("ハイ")
		assert.Equal(t, station.Highland, loc)
	})

	t.Run("legacy shift codes", func(t *testing.T) {
		loc, _ := station.Abbreviate("指泊")
		assert.Equal(t, station.Kawaguchiko, loc)
		loc, _ = station.Abbreviate("1組")
		assert.Equal(t, station.Otsuki, loc)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := station.Abbreviate("公休")
		assert.False(t, ok)
	})
}

func TestAllowedStations(t *testing.T) {
	assert.Equal(t, []string{station.Otsuki, station.Kawaguchiko},
		station.AllowedStations([]string{station.JobCrewDepot, station.JobDispatch}))
	assert.Equal(t, []string{station.RailwayTech},
		station.AllowedStations([]string{station.JobTechnical}))
	assert.Len(t, station.AllowedStations([]string{station.JobStationOffice}), 6)
	assert.False(t, station.StationAllowed([]string{station.JobStationOffice}, station.RailwayTech))
	assert.Empty(t, station.AllowedStations(nil))
}

func TestFromLegacyKey(t *testing.T) {
	s, ok := station.FromLegacyKey("distanceHighland")
	assert.True(t, ok)
	assert.Equal(t, station.Highland, s)

	s, ok = station.FromLegacyKey(station.Fujisan)
	assert.True(t, ok)
	assert.Equal(t, station.Fujisan, s)

	_, ok = station.FromLegacyKey("distanceUnknown")
	assert.False(t, ok)
}
