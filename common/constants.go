package common

// Fixed engine invariants. Tunable values (gravity, speeds, viewport) live in
// the config package; these are behavioral constants the update loop depends on.
const (
	PlayerMass      = 10.0
	PlayerMaxHealth = 100
	DefaultLives    = 3

	// Vertical speed below this magnitude counts as standing on ground.
	GroundedSpeedThreshold = 10.0

	// Distance below the viewport bottom that counts as falling off-world.
	FallOffMargin = 200.0

	EnemyContactDamage = 10

	// Camera convergence factor applied once per frame, not dt-scaled.
	CameraSmoothing = 0.1

	// Racing velocity decay applied once per input call for a released axis.
	RacingVelocityDecay = 0.9
)
