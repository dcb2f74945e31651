package model

// Coordinate is a WGS 84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ResolvedAddress is a formatted address split on its first comma.
type ResolvedAddress struct {
	MainLocation string `json:"main_location"`
	SubLocation  string `json:"sub_location"`
}

type ReverseGeocodeResponse struct {
	FormattedAddress string `json:"formatted_address"`
}
