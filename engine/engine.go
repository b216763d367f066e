// Package engine owns the fixed-step simulation for one session: game state,
// the object set, physics sync, collisions, camera and input. It consumes a
// parsed game description plus the resolved image set and stays pure CPU work;
// callers drive the tick cadence and serialize access externally.
package engine

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/common"
	"github.com/codecravings/game-builder/gamespec"
	"github.com/codecravings/game-builder/physics"
	"github.com/codecravings/game-builder/prefabs"
)

var ErrNotRunning = errors.New("engine: not initialized")

// Params are the load-time simulation constants.
type Params struct {
	ViewportWidth  float64
	ViewportHeight float64
	FPS            int
	Gravity        float64
	Friction       float64
	MoveSpeed      float64
	JumpForce      float64
}

type GameState struct {
	Score    int
	Time     float64
	Level    int
	Lives    int
	GameOver bool
	Win      bool
}

// Snapshot is the serializable state view returned to callers.
type Snapshot struct {
	Score    int     `json:"score"`
	Health   int     `json:"health"`
	Time     float64 `json:"time"`
	Level    int     `json:"level"`
	Lives    int     `json:"lives"`
	GameOver bool    `json:"game_over"`
	Win      bool    `json:"win"`
	FPS      int     `json:"fps"`
}

type Engine struct {
	params   Params
	defaults prefabs.Defaults
	desc     *gamespec.GameDescription
	log      zerolog.Logger

	state  GameState
	space  *physics.Space
	camera *Camera

	player       *Object
	objects      []*Object
	enemies      []*Object
	collectibles []*Object
	platforms    []*Object

	background image.Image

	keys map[string]bool
}

// New validates the description, builds the object set and the physics space,
// and binds the resolved images. A failed New never yields a running engine.
func New(params Params, defaults prefabs.Defaults, desc *gamespec.GameDescription, images map[string]image.Image, log zerolog.Logger) (*Engine, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		params:   params,
		defaults: defaults,
		desc:     desc,
		log:      log,
		state:    GameState{Lives: common.DefaultLives},
		space:    physics.NewSpace(params.Gravity, params.Friction),
		camera:   NewCamera(),
		keys:     make(map[string]bool),
	}

	e.buildEntities(images)
	e.buildLevelObjects(images)
	e.setupPhysics()

	if bg, ok := images[assets.SlotBackground]; ok && bg != nil {
		e.background = assets.ScaleImage(bg, int(params.ViewportWidth), int(params.ViewportHeight))
	}

	e.log.Info().
		Str("game_type", string(desc.GameType)).
		Str("title", desc.Title).
		Int("objects", len(e.objects)).
		Msg("game initialized")

	return e, nil
}

func (e *Engine) buildEntities(images map[string]image.Image) {
	for i := range e.desc.Entities {
		ent := &e.desc.Entities[i]

		w, h := ent.Width, ent.Height
		if w <= 0 {
			w = e.defaults.Entity.Width
		}
		if h <= 0 {
			h = e.defaults.Entity.Height
		}

		obj := &Object{
			Name:   ent.Name,
			Rect:   common.Rect{X: ent.X, Y: ent.Y, Width: w, Height: h},
			Color:  ent.Color.Or(e.defaults.Entity.Color.Or(color.White)),
			Active: true,
		}
		if img, ok := images[ent.Name]; ok && img != nil {
			obj.Image = assets.ScaleImage(img, int(w), int(h))
		}

		switch {
		case ent.Type == "player":
			obj.Kind = KindPlayer
			obj.Health = common.PlayerMaxHealth
			e.player = obj
		case ent.IsEnemy():
			obj.Kind = KindEnemy
			obj.Speed = e.defaults.Enemy.Speed
			obj.Direction = 1
			obj.PatrolRange = e.defaults.Enemy.PatrolRange
			obj.StartX = ent.X
			e.enemies = append(e.enemies, obj)
		default:
			obj.Kind = KindProp
		}

		e.objects = append(e.objects, obj)
	}
}

func (e *Engine) buildLevelObjects(images map[string]image.Image) {
	level := e.desc.ActiveLevel()

	for _, p := range level.Platforms {
		w, h := p.Width, p.Height
		if w <= 0 {
			w = e.defaults.Platform.Width
		}
		if h <= 0 {
			h = e.defaults.Platform.Height
		}
		obj := &Object{
			Name:   platformName(len(e.platforms)),
			Kind:   KindPlatform,
			Rect:   common.Rect{X: p.X, Y: p.Y, Width: w, Height: h},
			Color:  p.Color.Or(e.defaults.Platform.Color.Or(color.White)),
			Active: true,
			Solid:  true,
		}
		e.platforms = append(e.platforms, obj)
		e.objects = append(e.objects, obj)
	}

	for _, c := range level.Collectibles {
		w, h := c.Width, c.Height
		if w <= 0 {
			w = e.defaults.Collectible.Width
		}
		if h <= 0 {
			h = e.defaults.Collectible.Height
		}
		points := c.Points
		if points == 0 {
			points = e.defaults.Collectible.Points
		}
		obj := &Object{
			Name:   collectibleName(len(e.collectibles)),
			Kind:   KindCollectible,
			Rect:   common.Rect{X: c.X, Y: c.Y, Width: w, Height: h},
			Color:  e.defaults.Collectible.Color.Or(color.White),
			Active: true,
			Points: points,
		}
		if img, ok := images[assets.SlotCollectible]; ok && img != nil {
			obj.Image = assets.ScaleImage(img, int(w), int(h))
		}
		e.collectibles = append(e.collectibles, obj)
		e.objects = append(e.objects, obj)
	}
}

func (e *Engine) setupPhysics() {
	for _, p := range e.platforms {
		e.space.AddStaticBox(p.Rect)
	}
	if e.player != nil {
		e.player.Body = e.space.AddDynamicBox(e.player.Rect, common.PlayerMass)
	}
}

// ApplyInput stores the pressed key set and applies the per-game-type control
// scheme once. Movement drives the player's physics body; the logical velocity
// mirrors it for snapshots and tests.
func (e *Engine) ApplyInput(keys []string) error {
	if e == nil || e.desc == nil {
		return ErrNotRunning
	}

	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[strings.ToLower(strings.TrimSpace(k))] = true
	}
	e.keys = set

	p := e.player
	if p == nil {
		return nil
	}

	switch e.desc.GameType {
	case gamespec.GameTypePlatformer:
		switch {
		case e.pressed("left", "a"):
			e.space.SetVelocityX(p.Body, -e.params.MoveSpeed)
			p.VelX = -e.params.MoveSpeed
		case e.pressed("right", "d"):
			e.space.SetVelocityX(p.Body, e.params.MoveSpeed)
			p.VelX = e.params.MoveSpeed
		default:
			e.space.SetVelocityX(p.Body, 0)
			p.VelX = 0
		}
		if e.pressed("up", "w", "space") {
			e.jump()
		}

	case gamespec.GameTypeRacing:
		vx, vy, ok := e.space.Velocity(p.Body)
		if !ok {
			return nil
		}
		switch {
		case e.pressed("up", "w"):
			vy = -e.params.MoveSpeed
		case e.pressed("down", "s"):
			vy = e.params.MoveSpeed
		default:
			vy *= common.RacingVelocityDecay
		}
		switch {
		case e.pressed("left", "a"):
			vx = -e.params.MoveSpeed
		case e.pressed("right", "d"):
			vx = e.params.MoveSpeed
		default:
			vx *= common.RacingVelocityDecay
		}
		e.space.SetVelocity(p.Body, vx, vy)
		p.VelX, p.VelY = vx, vy
	}

	return nil
}

func (e *Engine) pressed(names ...string) bool {
	for _, n := range names {
		if e.keys[n] {
			return true
		}
	}
	return false
}

func (e *Engine) jump() {
	p := e.player
	if p == nil || !p.OnGround {
		return
	}
	e.space.SetVelocityY(p.Body, e.params.JumpForce)
	p.VelY = e.params.JumpForce
	p.OnGround = false
}

// Advance runs one fixed-step update. Terminal flags latch but the loop keeps
// advancing until an explicit Reset, so the last frame stays renderable.
func (e *Engine) Advance(dt float64) error {
	if e == nil || e.desc == nil {
		return ErrNotRunning
	}

	e.state.Time += dt

	e.space.Step(dt)
	e.syncPlayer()

	for _, o := range e.objects {
		if !o.Active {
			continue
		}
		switch o.Kind {
		case KindPlayer:
			// transform is physics-owned, synced above
		case KindEnemy:
			o.patrol()
			o.integrate(dt)
		default:
			o.integrate(dt)
		}
	}

	e.checkCollisions()
	e.updateCamera()
	e.checkConditions()
	return nil
}

func (e *Engine) syncPlayer() {
	p := e.player
	if p == nil || p.Body == 0 {
		return
	}
	cx, cy, ok := e.space.Position(p.Body)
	if !ok {
		return
	}
	p.Rect.X = cx - p.Rect.Width/2
	p.Rect.Y = cy - p.Rect.Height/2

	vx, vy, _ := e.space.Velocity(p.Body)
	p.VelX, p.VelY = vx, vy
	p.OnGround = math.Abs(vy) < common.GroundedSpeedThreshold
}

func (e *Engine) checkCollisions() {
	p := e.player
	if p == nil {
		return
	}

	for _, c := range e.collectibles {
		if c.Active && p.Rect.Intersects(&c.Rect) {
			e.state.Score += c.Collect()
		}
	}

	for _, en := range e.enemies {
		if en.Active && p.Rect.Intersects(&en.Rect) {
			p.Health -= common.EnemyContactDamage
			if p.Health <= 0 {
				e.state.GameOver = true
			}
		}
	}
}

func (e *Engine) updateCamera() {
	if e.player == nil {
		return
	}
	e.camera.Update(
		e.player.Rect.X-e.params.ViewportWidth/2,
		e.player.Rect.Y-e.params.ViewportHeight/2,
	)
}

func (e *Engine) checkConditions() {
	if len(e.collectibles) > 0 {
		all := true
		for _, c := range e.collectibles {
			if c.Active {
				all = false
				break
			}
		}
		if all {
			e.state.Win = true
		}
	}

	if e.player != nil && e.player.Rect.Y > e.params.ViewportHeight+common.FallOffMargin {
		e.state.GameOver = true
	}
}

// Reset restores default game state, full health and the spawn position.
// Assets and the parsed description are reused as-is. The body keeps its
// velocity, so a fall in progress carries over the teleport.
func (e *Engine) Reset() error {
	if e == nil || e.desc == nil {
		return ErrNotRunning
	}

	e.state = GameState{Lives: common.DefaultLives}

	if p := e.player; p != nil {
		p.Health = common.PlayerMaxHealth
		if p.Body != 0 {
			e.space.SetPosition(p.Body, e.defaults.Spawn.X, e.defaults.Spawn.Y)
		}
	}

	for _, c := range e.collectibles {
		c.Active = true
		c.Collected = false
	}

	e.log.Debug().Msg("game reset")
	return nil
}

func (e *Engine) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{Health: common.PlayerMaxHealth}
	}
	health := common.PlayerMaxHealth
	if e.player != nil {
		health = e.player.Health
	}
	return Snapshot{
		Score:    e.state.Score,
		Health:   health,
		Time:     e.state.Time,
		Level:    e.state.Level,
		Lives:    e.state.Lives,
		GameOver: e.state.GameOver,
		Win:      e.state.Win,
		FPS:      e.params.FPS,
	}
}

// Objects returns the render-ordered object sequence: declared entities first,
// then platforms, then collectibles.
func (e *Engine) Objects() []*Object {
	if e == nil {
		return nil
	}
	return e.objects
}

func (e *Engine) Player() *Object {
	if e == nil {
		return nil
	}
	return e.player
}

func (e *Engine) Background() image.Image {
	if e == nil {
		return nil
	}
	return e.background
}

func (e *Engine) CameraOffset() (x, y float64) {
	if e == nil || e.camera == nil {
		return 0, 0
	}
	return e.camera.X, e.camera.Y
}

func (e *Engine) State() GameState {
	if e == nil {
		return GameState{}
	}
	return e.state
}

func (e *Engine) Params() Params {
	if e == nil {
		return Params{}
	}
	return e.params
}

func (e *Engine) GameType() gamespec.GameType {
	if e == nil || e.desc == nil {
		return gamespec.GameTypePlatformer
	}
	return e.desc.GameType
}

func platformName(i int) string {
	return "platform_" + strconv.Itoa(i)
}

func collectibleName(i int) string {
	return "collectible_" + strconv.Itoa(i)
}
