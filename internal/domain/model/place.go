package model

// Place は名前付きの地点。カタログは組み込みで実行時には変更しない
type Place struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Coordinate  Coordinate `json:"coordinate"`
}

// Annotation はカタログの場所を表すマーカーを生成する
func (p Place) Annotation() Annotation {
	return NewAnnotation(RolePlace, p.Coordinate, p.Name, p.Description)
}

var placeCatalog = []Place{
	{Name: "CN Tower", Description: "Toronto's landmark tower", Coordinate: Coordinate{Latitude: 43.6426, Longitude: -79.3871}},
	{Name: "Royal Ontario Museum", Description: "Art, culture and natural history", Coordinate: Coordinate{Latitude: 43.6677, Longitude: -79.3948}},
	{Name: "Casa Loma", Description: "Gothic Revival castle", Coordinate: Coordinate{Latitude: 43.6780, Longitude: -79.4094}},
	{Name: "Distillery District", Description: "Victorian industrial pedestrian village", Coordinate: Coordinate{Latitude: 43.6503, Longitude: -79.3596}},
	{Name: "High Park", Description: "Toronto's largest public park", Coordinate: Coordinate{Latitude: 43.6465, Longitude: -79.4637}},
}

// Places はカタログのコピーを返す
func Places() []Place {
	return append([]Place(nil), placeCatalog...)
}

// PlaceCoordinates はカタログの座標を順番通りに返す
func PlaceCoordinates() []Coordinate {
	coords := make([]Coordinate, len(placeCatalog))
	for i, p := range placeCatalog {
		coords[i] = p.Coordinate
	}
	return coords
}

// PlacesWithin は矩形内にあるカタログの場所を返す
func PlacesWithin(b Bounds) []Place {
	bound := b.Orb()
	var places []Place
	for _, p := range placeCatalog {
		if bound.Contains(p.Coordinate.Point()) {
			places = append(places, p)
		}
	}
	return places
}
