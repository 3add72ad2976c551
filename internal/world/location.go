package world

// LocationType broadly categorizes a Location for rendering/travel rules.
type LocationType int

const (
	Wilderness LocationType = iota
	Town
	City
	Dungeon
	Building
	Room
	Road
	Cave
	OtherLocation
)

// LocationConnection links one Location to another traversable neighbor.
type LocationConnection struct {
	DestinationID      LocationID
	DestinationName    string
	Direction          string
	TravelTimeMinutes  int
	Description        string
}

// Location is a place the player can currently be, or travel to.
type Location struct {
	ID                 LocationID
	Name               string
	Type               LocationType
	Description        string
	Connections        []LocationConnection
	NPCsPresent        []CharacterID
	Items              []string
	DiscoveredSecrets  []string
}

// NewLocation creates a named, typed, otherwise-empty location.
func NewLocation(name string, locType LocationType) Location {
	return Location{ID: NewLocationID(), Name: name, Type: locType}
}
