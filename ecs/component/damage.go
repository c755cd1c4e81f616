package component

import "github.com/go-gl/mathgl/mgl64"

// DamageFlags classify where damage came from.
type DamageFlags uint32

const (
	DamageGeneric DamageFlags = 0
	DamageBullet  DamageFlags = 1 << iota
	DamageBlunt
	DamageFall
	DamageBlast
	// DamageVehicle marks a heavy collision; a kill with it plays gore.
	DamageVehicle
)

func (f DamageFlags) Has(o DamageFlags) bool {
	return f&o != 0
}

// DamageInfo is one damage event. It is consumed once by the victim.
type DamageInfo struct {
	Amount      float64
	Position    mgl64.Vec3
	Force       mgl64.Vec3
	Flags       DamageFlags
	HitboxIndex int
	Attacker    uint64
	Weapon      uint64
}

// BulletDamage describes a hit at pos pushing with force.
func BulletDamage(pos, force mgl64.Vec3, amount float64) DamageInfo {
	return DamageInfo{
		Amount:      amount,
		Position:    pos,
		Force:       force,
		Flags:       DamageBullet,
		HitboxIndex: -1,
	}
}

func (d DamageInfo) WithAttacker(attacker, weapon uint64) DamageInfo {
	d.Attacker = attacker
	d.Weapon = weapon
	return d
}

func (d DamageInfo) WithHitbox(index int) DamageInfo {
	d.HitboxIndex = index
	return d
}

func (d DamageInfo) WithFlag(flag DamageFlags) DamageInfo {
	d.Flags |= flag
	return d
}
