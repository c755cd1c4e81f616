package component

// Carriable is an item an agent can hold. Kind selects its behaviour.
type Carriable struct {
	Kind         string
	Name         string
	Owner        uint64
	Bucket       int
	BucketWeight int
	HoldType     int
	Handedness   int
	Visible      bool

	Damage       float64
	Force        float64
	Range        float64
	Radius       float64
	FireInterval float64
	SinceFire    TimeSince
}

// Order sorts items for selection: by bucket, then weight inside it.
func (c *Carriable) Order() int {
	return c.Bucket*1000 + c.BucketWeight
}

// IsUsable reports whether the item is lying free to be picked up.
func (c *Carriable) IsUsable() bool {
	return c.Owner == 0
}

var CarriableComponent = NewComponent[Carriable]()

// Equipment is the active-item slot. LastActive trails Active by one tick so
// swaps are detected as an edge.
type Equipment struct {
	Active     uint64
	LastActive uint64
}

var EquipmentComponent = NewComponent[Equipment]()

// Inventory lists the items an entity carries.
type Inventory struct {
	Items []uint64
}

var InventoryComponent = NewComponent[Inventory]()
