package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type NPCTag struct{}

var NPCTagComponent = NewComponent[NPCTag]()

type ItemTag struct{}

var ItemTagComponent = NewComponent[ItemTag]()

// Owner links a deployed or thrown entity back to whoever created it, for
// damage attribution.
type Owner struct {
	Entity uint64
}

var OwnerComponent = NewComponent[Owner]()
