package system

import "github.com/df-mc/dragonfly/server/block/cube"

// Locomotion tuning.
const (
	walkAcceleration = 500.0
	// minTurnSpeed is the horizontal speed below which facing is left alone.
	minTurnSpeed  = 0.5
	turnSpeedMax  = 100.0
	turnRateScale = 20.0
	lookLerpRate  = 100.0
	lookDistance  = 1000.0
	eyeHeight     = 64.0
)

// Ground movement tuning.
const (
	stepSize          = 30.0
	groundProbe       = 10.0
	gravity           = 900.0
	frictionScale     = 10.0
	maxStandableAngle = 50.0
	nearlyZero        = 0.001
)

// Jump tuning. launchSpeed reaches the height of a standard 45 unit jump
// with some headroom.
const (
	jumpProbeDistance = 60.0
	jumpProbeLift     = 1.0
	jumpStepHeight    = 5.0
	jumpClearHeight   = 64.0
	jumpCooldown      = 1.0
	jumpNudge         = 5.0
	launchSpeed       = 268.3281572999747 * 1.2
)

// Fall damage tuning.
const (
	fallSpeedThreshold = 750.0
	fallDamageDivisor  = 50.0
	fallCooldown       = 0.05
)

// Combat tuning.
const (
	meleeRadius        = 60.0
	meleeForceScale    = 100.0
	meleeImpactRadius  = 100.0
	headshotMultiplier = 2.0
	defaultBulletSize  = 2.0
	feedbackFullHealth = 100.0
)

// DefaultCorpseTTL is how long a corpse stays in the world, in seconds.
const DefaultCorpseTTL = 30.0

// moverHull is the box the ground mover sweeps. It is narrower than the
// agent body so agents squeeze through doorways.
var moverHull = cube.Box(-4, -4, 0, 4, 4, 64)
