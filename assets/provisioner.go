package assets

import (
	"context"
	"image"
	"image/color"

	"github.com/rs/zerolog"

	"github.com/codecravings/game-builder/gamespec"
)

// Slot names shared artwork binds under. Player and enemy artwork binds
// under the entity's own name instead.
const (
	SlotBackground  = "background"
	SlotCollectible = "collectible"
	SlotPlatform    = "platform"
)

// request is one slot in the provisioning plan: which category to
// prompt for and which key the engine will look the result up under.
// An absent request holds its rank but is never attempted.
type request struct {
	Slot     string
	Category Category
	Absent   bool
}

// Resolution is the outcome of provisioning one game description.
// Every entity named by the description has an image in Images; shared
// slots are present when the description calls for them.
type Resolution struct {
	Images    map[string]image.Image
	CallsUsed int
	Generated []string
}

// Provisioner resolves artwork for game descriptions under a hard
// per-game generation budget. Cache hits and fallback sprites are
// free; only live generation spends budget.
type Provisioner struct {
	cache    *Cache
	gen      Generator
	budget   int
	fallback color.Color
	log      zerolog.Logger
}

// NewProvisioner wires a provisioner. gen may be nil for offline runs,
// in which case every slot resolves from cache or fallback art. A nil
// fallback color means the default mid-blue.
func NewProvisioner(cache *Cache, gen Generator, budget int, fallback color.Color, log zerolog.Logger) *Provisioner {
	if fallback == nil {
		fallback = DefaultFallbackColor
	}
	return &Provisioner{cache: cache, gen: gen, budget: budget, fallback: fallback, log: log}
}

// plan ranks the artwork worth paying for, most visible first: the
// player sprite, the level background, the first entity named like an
// enemy, one collectible, one platform tile. Each category contributes
// at most one slot; everything else rides on fallbacks. A level that
// declares no background keeps the backdrop's rank slot but marks it
// absent, so it never spends a generation call.
func plan(desc *gamespec.GameDescription) []request {
	var reqs []request
	if p := desc.PlayerEntity(); p != nil {
		reqs = append(reqs, request{Slot: p.Name, Category: CategoryPlayer})
	}
	if len(desc.Levels) > 0 {
		reqs = append(reqs, request{
			Slot:     SlotBackground,
			Category: CategoryBackground,
			Absent:   desc.ActiveLevel().Background == "",
		})
	}
	if e := desc.FirstNamedEnemy(); e != nil {
		reqs = append(reqs, request{Slot: e.Name, Category: CategoryEnemy})
	}
	if c := desc.FirstCollectible(); c != nil {
		reqs = append(reqs, request{Slot: SlotCollectible, Category: CategoryCollectible})
	}
	if pl := desc.FirstPlatform(); pl != nil {
		reqs = append(reqs, request{Slot: SlotPlatform, Category: CategoryPlatform})
	}
	return reqs
}

// Provision resolves the name to image mapping for desc. Ranked slots
// consult the cache first and generate on a miss while budget remains;
// a failed generation is logged, spends nothing and leaves the slot to
// the fallback pass. Afterwards every entity still without artwork
// gets a deterministic fallback sprite, so provisioning never leaves
// an entity imageless and never fails the game for want of art.
func (p *Provisioner) Provision(ctx context.Context, desc *gamespec.GameDescription) *Resolution {
	res := &Resolution{Images: make(map[string]image.Image)}

	reqs := plan(desc)
	if len(reqs) > p.budget {
		reqs = reqs[:p.budget]
	}
	p.log.Info().Str("title", desc.Title).Int("slots", len(reqs)).Msg("provisioning artwork")

	for _, req := range reqs {
		if req.Absent {
			p.log.Debug().Str("slot", req.Slot).Msg("slot declares no artwork, skipping")
			continue
		}
		prompt := BuildPrompt(desc, req.Category)
		key := Key(prompt, req.Category)

		if img, ok := p.cache.Get(key); ok {
			p.log.Debug().Str("slot", req.Slot).Msg("artwork served from cache")
			res.Images[req.Slot] = img
			continue
		}
		if p.gen == nil || res.CallsUsed >= p.budget {
			continue
		}

		img, err := p.gen.Generate(ctx, prompt)
		if err != nil {
			p.log.Warn().Str("slot", req.Slot).Err(err).Msg("image generation failed, will fall back")
			continue
		}
		res.CallsUsed++

		w, h := TargetSize(req.Category)
		img = ScaleImage(img, w, h)
		if err := p.cache.Put(key, req.Category, img); err != nil {
			p.log.Warn().Str("slot", req.Slot).Err(err).Msg("caching artwork failed, using in-memory copy")
		}
		res.Images[req.Slot] = img
		res.Generated = append(res.Generated, req.Slot)
		p.log.Info().Str("slot", req.Slot).Str("category", string(req.Category)).Msg("artwork generated")
	}

	p.fallbacks(desc, res)

	p.log.Info().
		Int("images", len(res.Images)).
		Int("calls_used", res.CallsUsed).
		Msg("artwork provisioning complete")
	return res
}

// fallbacks binds a stand-in sprite to every entity provisioning left
// unresolved. Sprites persist through the cache so the same entity and
// color reuse one artifact across runs.
func (p *Provisioner) fallbacks(desc *gamespec.GameDescription, res *Resolution) {
	for i := range desc.Entities {
		ent := &desc.Entities[i]
		if _, ok := res.Images[ent.Name]; ok {
			continue
		}

		c := ent.Color.Or(p.fallback)
		key := FallbackKey(ent.Name, c)

		if img, ok := p.cache.Get(key); ok {
			res.Images[ent.Name] = img
			continue
		}

		img := FallbackSprite(c)
		if err := p.cache.Put(key, CategoryFallback, img); err != nil {
			p.log.Warn().Str("entity", ent.Name).Err(err).Msg("caching fallback sprite failed, using in-memory copy")
		}
		res.Images[ent.Name] = img
		p.log.Debug().Str("entity", ent.Name).Msg("fallback sprite synthesized")
	}
}
