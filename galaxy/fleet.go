package galaxy

import (
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/ident"
	"gopkg.in/yaml.v3"
)

// ShipClass describes the size or technology of a ship.
type ShipClass uint8

const (
	Frigate ShipClass = iota
	Destroyer
	Cruiser
	Battleship
	LargeCarrier
	MultiPurpose
	Special
)

var shipClassNames = [...]string{
	Frigate:      "frigate",
	Destroyer:    "destroyer",
	Cruiser:      "cruiser",
	Battleship:   "battleship",
	LargeCarrier: "large_carrier",
	MultiPurpose: "multi_purpose",
	Special:      "special",
}

func (c ShipClass) String() string {
	if int(c) < len(shipClassNames) {
		return shipClassNames[c]
	}
	return fmt.Sprintf("ShipClass(%d)", uint8(c))
}

// Military reports whether ships of the class are warships.
func (c ShipClass) Military() bool {
	return c <= Battleship
}

func ParseShipClass(name string) (ShipClass, error) {
	for i, n := range shipClassNames {
		if n == name {
			return ShipClass(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ship class %q", name)
}

func (c *ShipClass) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseShipClass(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// Slots counts module slots on a hull.
type Slots struct {
	Engine  int `yaml:"engine"`
	Power   int `yaml:"power"`
	General int `yaml:"general"`
	Armor   int `yaml:"armor"`
	Weapon  int `yaml:"weapon"`
}

func (s Slots) Total() int {
	return s.Engine + s.Power + s.General + s.Armor + s.Weapon
}

// ShipTemplate is the skeleton of a ship class.
type ShipTemplate struct {
	Class        ShipClass `yaml:"class"`
	BaseMass     float64   `yaml:"base_mass"`
	Integrity    float64   `yaml:"integrity"`
	Slots        Slots     `yaml:"slots"`
	Speed        float64   `yaml:"speed"`         // light years per second
	SensorRadius float64   `yaml:"sensor_radius"` // light years
}

type templateFile struct {
	Templates []ShipTemplate `yaml:"templates"`
}

// TemplateTable holds ship templates indexed by class.
type TemplateTable struct {
	templates map[ShipClass]*ShipTemplate
}

// LoadTemplates reads ship templates from a YAML file.
func LoadTemplates(path string) (*TemplateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ship templates: %w", err)
	}
	return ParseTemplates(data)
}

func ParseTemplates(data []byte) (*TemplateTable, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ship templates: %w", err)
	}
	t := &TemplateTable{templates: make(map[ShipClass]*ShipTemplate, len(f.Templates))}
	for i := range f.Templates {
		tpl := &f.Templates[i]
		if tpl.SensorRadius <= 0 {
			return nil, fmt.Errorf("ship template %s: sensor_radius must be positive", tpl.Class)
		}
		t.templates[tpl.Class] = tpl
	}
	return t, nil
}

func (t *TemplateTable) Get(class ShipClass) *ShipTemplate {
	return t.templates[class]
}

// Classes lists the classes with a template, in class order.
func (t *TemplateTable) Classes() []ShipClass {
	classes := make([]ShipClass, 0, len(t.templates))
	for class := range t.templates {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	return classes
}

func (t *TemplateTable) Count() int {
	return len(t.templates)
}

// Fleet is a group of ships of one class travelling together.
type Fleet struct {
	ID          ident.PackedId
	LongID      ident.LongId
	Class       ShipClass
	Ships       int
	Speed       float64
	Sensor      float64
	Destination mgl64.Vec3
	Arrived     bool
}

// Mass is the combined base mass of the fleet's hulls.
func (f Fleet) Mass(t *ShipTemplate) float64 {
	return t.BaseMass * float64(f.Ships)
}

// NewFleet allocates ids for a fleet built from tpl.
func NewFleet(alloc *ident.Allocator, tpl *ShipTemplate, ships int, destination mgl64.Vec3) (Fleet, error) {
	id, err := alloc.Allocate(ident.KindFleet)
	if err != nil {
		return Fleet{}, fmt.Errorf("allocate fleet id: %w", err)
	}
	return Fleet{
		ID:          id,
		LongID:      ident.Random(),
		Class:       tpl.Class,
		Ships:       ships,
		Speed:       tpl.Speed,
		Sensor:      tpl.SensorRadius,
		Destination: destination,
	}, nil
}
