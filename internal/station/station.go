package station

import "strings"

// Canonical work locations. Six stations on the line plus the technical facility.
const (
	Otsuki       = "大月駅"
	Tsuru        = "都留文科大学前駅"
	Shimoyoshida = "下吉田駅"
	Fujisan      = "富士山駅"
	Highland     = "ハイランド駅"
	Kawaguchiko  = "河口湖駅"
	RailwayTech  = "鉄道技術所"
)

// All lists canonical locations in line order.
var All = []string{Otsuki, Tsuru, Shimoyoshida, Fujisan, Highland, Kawaguchiko, RailwayTech}

type Abbreviation struct {
	Token    string
	Location string
}

// Abbreviations is scanned in order; the first token contained in a cell wins.
// 指明, 指泊 and 組 are legacy shift codes that imply a location.
var Abbreviations = []Abbreviation{
	{Token: "大月", Location: Otsuki},
	{Token: "都留", Location: Tsuru},
	{Token: "下吉", Location: Shimoyoshida},
	{Token: "富士", Location: Fujisan},
	{Token: "HL", Location: Highland},
	{Token: "ハイ", Location: Highland},
	{Token: "河口", Location: Kawaguchiko},
	{Token: "指明", Location: Otsuki},
	{Token: "指泊", Location: Kawaguchiko},
	{Token: "組", Location: Otsuki},
}

func IsCanonical(name string) bool {
	for _, s := range All {
		if s == name {
			return true
		}
	}
	return false
}

// Abbreviate returns the location of the first abbreviation contained in text.
func Abbreviate(text string) (string, bool) {
	for _, a := range Abbreviations {
		if strings.Contains(text, a.Token) {
			return a.Location, true
		}
	}
	return "", false
}

// legacyKeys maps distance form field ids found in older exports to station names.
var legacyKeys = map[string]string{
	"distanceOtsuki":       Otsuki,
	"distanceTsuru":        Tsuru,
	"distanceShimoyoshida": Shimoyoshida,
	"distanceFujisan":      Fujisan,
	"distanceHighland":     Highland,
	"distanceKawaguchiko":  Kawaguchiko,
	"distanceRailwayTech":  RailwayTech,
}

// FromLegacyKey resolves either a canonical station name or a legacy field id.
func FromLegacyKey(key string) (string, bool) {
	if IsCanonical(key) {
		return key, true
	}
	s, ok := legacyKeys[key]
	return s, ok
}
