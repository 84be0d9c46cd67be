package domain

// WearWeights is the per-component-type weight tuple applied to the four
// wear terms: hours in the saddle, distance, climbing, and steepness.
type WearWeights struct {
	WH float64
	WD float64
	WC float64
	WV float64
}

// ServiceInterval holds the nominal hours a component type lasts before
// service. Paired types keep distinct front/rear values in Front/Rear;
// unpaired types use Single.
type ServiceInterval struct {
	Single float64
	Front  float64
	Rear   float64
}

// DefaultIntervalHours is used for component types absent from the catalog,
// so newly introduced types still get a prediction.
const DefaultIntervalHours = 200

var defaultWeights = WearWeights{WH: 1.0, WD: 1.0, WC: 1.0, WV: 1.0}

// Weight tuples are shared between front and rear units of paired types.
var wearWeightCatalog = map[ComponentType]WearWeights{
	Chain:          {WH: 1.0, WD: 1.3, WC: 1.4, WV: 0.8},
	Cassette:       {WH: 0.9, WD: 1.2, WC: 1.3, WV: 0.7},
	Chainring:      {WH: 0.8, WD: 1.1, WC: 1.2, WV: 0.6},
	BrakePad:       {WH: 0.7, WD: 0.9, WC: 2.0, WV: 2.2},
	Tire:           {WH: 0.6, WD: 1.8, WC: 0.6, WV: 0.9},
	Rotor:          {WH: 0.5, WD: 0.7, WC: 1.6, WV: 1.8},
	Sealant:        {WH: 1.4, WD: 0.5, WC: 0.2, WV: 0.2},
	Derailleur:     {WH: 1.0, WD: 1.0, WC: 0.8, WV: 0.5},
	ShiftCable:     {WH: 1.1, WD: 1.0, WC: 0.7, WV: 0.4},
	BrakeFluid:     {WH: 1.2, WD: 0.4, WC: 1.2, WV: 1.4},
	SuspensionFork: {WH: 1.3, WD: 0.8, WC: 1.1, WV: 1.6},
	RearShock:      {WH: 1.3, WD: 0.8, WC: 1.1, WV: 1.6},
	DropperPost:    {WH: 1.2, WD: 0.6, WC: 0.5, WV: 0.6},
	WheelBearing:   {WH: 0.8, WD: 1.4, WC: 0.5, WV: 0.4},
	BottomBracket:  {WH: 0.9, WD: 1.3, WC: 0.9, WV: 0.6},
	Headset:        {WH: 0.9, WD: 0.7, WC: 0.8, WV: 1.0},
	Pedals:         {WH: 0.9, WD: 1.0, WC: 0.7, WV: 0.5},
}

var serviceIntervalCatalog = map[ComponentType]ServiceInterval{
	Chain:          {Single: 100},
	Cassette:       {Single: 300},
	Chainring:      {Single: 400},
	BrakePad:       {Front: 120, Rear: 100},
	Tire:           {Front: 200, Rear: 150},
	Rotor:          {Front: 350, Rear: 320},
	Sealant:        {Single: 60},
	Derailleur:     {Single: 250},
	ShiftCable:     {Single: 150},
	BrakeFluid:     {Single: 180},
	SuspensionFork: {Single: 50},
	RearShock:      {Single: 50},
	DropperPost:    {Single: 100},
	WheelBearing:   {Single: 400},
	BottomBracket:  {Single: 350},
	Headset:        {Single: 400},
	Pedals:         {Single: 300},
}

// WeightsFor returns the wear-weight tuple for a component type, falling
// back to the generic tuple for unknown types.
func WeightsFor(t ComponentType) WearWeights {
	if w, ok := wearWeightCatalog[t]; ok {
		return w
	}
	return defaultWeights
}

// IntervalFor resolves the catalog base interval for (type, location).
// Paired types with an unknown location get the shorter rear interval.
func IntervalFor(t ComponentType, loc MountLocation) float64 {
	iv, ok := serviceIntervalCatalog[t]
	if !ok {
		return DefaultIntervalHours
	}
	if t.Paired() {
		if loc == LocationFront {
			return iv.Front
		}
		return iv.Rear
	}
	return iv.Single
}
