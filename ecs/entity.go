package ecs

import "strconv"

// Entity packs a 32-bit slot id and a 32-bit generation. The zero Entity is
// never handed out and stands for "no entity".
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

const NoEntity Entity = 0

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Less orders entities by slot id, then generation.
func (e Entity) Less(o Entity) bool {
	if e.id() != o.id() {
		return e.id() < o.id()
	}
	return e.generation() < o.generation()
}
