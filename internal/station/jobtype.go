package station

// Job types control which distance entries a person may record.
const (
	JobStationOffice = "管理駅"
	JobCrewDepot     = "乗務員区"
	JobDispatch      = "運転指令"
	JobTechnical     = "技術所"
)

var JobTypes = []string{JobStationOffice, JobCrewDepot, JobDispatch, JobTechnical}

var jobStations = map[string][]string{
	JobStationOffice: {Otsuki, Tsuru, Shimoyoshida, Fujisan, Highland, Kawaguchiko},
	JobCrewDepot:     {Otsuki, Kawaguchiko},
	JobDispatch:      {Kawaguchiko},
	JobTechnical:     {RailwayTech},
}

func IsJobType(name string) bool {
	_, ok := jobStations[name]
	return ok
}

// AllowedStations returns the union of stations enabled by jobTypes, in line order.
func AllowedStations(jobTypes []string) []string {
	enabled := make(map[string]bool)
	for _, jt := range jobTypes {
		for _, s := range jobStations[jt] {
			enabled[s] = true
		}
	}
	out := make([]string, 0, len(enabled))
	for _, s := range All {
		if enabled[s] {
			out = append(out, s)
		}
	}
	return out
}

func StationAllowed(jobTypes []string, name string) bool {
	for _, s := range AllowedStations(jobTypes) {
		if s == name {
			return true
		}
	}
	return false
}
