package models

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Role partitions the store into outlets (mağaza) and producers (üretici).
type Role string

const (
	RoleOutlet   Role = "outlet"
	RoleProducer Role = "producer"
)

type Entity struct {
	Code string     `json:"code"`
	Name string     `json:"name"`
	Role Role       `json:"role"`
	Loc  Coordinate `json:"location"`
	// Descriptive fields, carried through for display only.
	Region   string `json:"region,omitempty"`
	District string `json:"district,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Nearby is one ranked producer with its distance from the reference point.
type Nearby struct {
	Entity     Entity  `json:"entity"`
	DistanceKm float64 `json:"distance_km"`
}

type ReportRow struct {
	OutletCode   string
	OutletName   string
	OutletLat    float64
	OutletLon    float64
	Rank         int
	ProducerCode string
	ProducerName string
	ProducerLat  float64
	ProducerLon  float64
	DistanceKm   float64
}
