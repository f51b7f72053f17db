package flight

// Coordinates is a geographic point for route rendering.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Airport is an entry in the static airport catalog.
type Airport struct {
	Code string
	Name string
	Lat  float64
	Lon  float64
}

// airportCatalog is the fixed set of airports known to the resolver and
// to the mock generator.
var airportCatalog = []Airport{
	{Code: "DXB", Name: "Dubai", Lat: 25.2532, Lon: 55.3657},
	{Code: "LHR", Name: "London Heathrow", Lat: 51.4700, Lon: -0.4543},
	{Code: "SIN", Name: "Singapore", Lat: 1.3644, Lon: 103.9915},
	{Code: "FRA", Name: "Frankfurt", Lat: 50.0333, Lon: 8.5706},
	{Code: "CDG", Name: "Paris Charles de Gaulle", Lat: 49.0097, Lon: 2.5479},
	{Code: "JFK", Name: "New York JFK", Lat: 40.6413, Lon: -73.7781},
	{Code: "SFO", Name: "San Francisco", Lat: 37.7749, Lon: -122.4194},
	{Code: "ICN", Name: "Seoul Incheon", Lat: 37.4602, Lon: 126.4407},
	{Code: "NRT", Name: "Tokyo Narita", Lat: 35.7653, Lon: 140.3856},
	{Code: "DOH", Name: "Doha", Lat: 25.2731, Lon: 51.6081},
}

// defaultCoordinates is returned for any code outside the catalog,
// including the "Unknown" sentinel. Centered on NYC.
var defaultCoordinates = Coordinates{Lat: 40.7128, Lon: -74.0060}

var airportIndex = func() map[string]Coordinates {
	idx := make(map[string]Coordinates, len(airportCatalog))
	for _, a := range airportCatalog {
		idx[a.Code] = Coordinates{Lat: a.Lat, Lon: a.Lon}
	}
	return idx
}()

// ResolveAirport maps a location code to a geographic point. Unknown
// codes resolve to the default point; the function is total over all
// string inputs and never fails.
func ResolveAirport(code string) Coordinates {
	if c, ok := airportIndex[code]; ok {
		return c
	}
	return defaultCoordinates
}

// Airports returns the static airport catalog.
func Airports() []Airport {
	return airportCatalog
}
