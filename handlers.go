package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/engine"
	"github.com/codecravings/game-builder/gamespec"
	"github.com/codecravings/game-builder/render"
)

// inputRequest mirrors the frontend's key event batch.
type inputRequest struct {
	Keys      []string `json:"keys"`
	Timestamp float64  `json:"timestamp"`
}

func (s *server) handleInitialize(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Game initialization failed: %v", err)})
		return
	}

	desc, err := gamespec.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Game initialization failed: %v", err)})
		return
	}

	s.log.Info().Str("title", desc.Title).Msg("initializing game")

	prov := assets.NewProvisioner(s.cache, s.gen, s.cfg.Assets.GenerationBudget, s.defaults.Fallback.Color.Or(nil), s.log)
	res := prov.Provision(c.Request.Context(), desc)

	eng, err := engine.New(s.gameParams(), s.defaults, desc, res.Images, s.log)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Game initialization failed: %v", err)})
		return
	}
	s.sess.swap(eng, res)

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             fmt.Sprintf("Game '%s' initialized successfully", desc.Title),
		"assets_generated":    len(res.Images),
		"dalle_requests_used": res.CallsUsed,
		"game_type":           desc.GameType,
	})
}

func (s *server) handleInput(c *gin.Context) {
	var in inputRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Input handling failed: %v", err)})
		return
	}

	keys := normalizeKeys(in.Keys)
	err := s.sess.withEngine(func(e *engine.Engine) error {
		return e.ApplyInput(keys)
	})
	if err != nil {
		s.sessionError(c, err, "Input handling failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "keys_processed": keys})
}

func (s *server) handleState(c *gin.Context) {
	var snap engine.Snapshot
	err := s.sess.withEngine(func(e *engine.Engine) error {
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		s.sessionError(c, err, "Failed to get game state")
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *server) handleFrame(c *gin.Context) {
	buf, _, err := s.stepAndRender()
	if err != nil {
		s.sessionError(c, err, "Frame generation failed")
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *server) handleFrameBase64(c *gin.Context) {
	buf, snap, err := s.stepAndRender()
	if err != nil {
		s.sessionError(c, err, "Frame generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"frame":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		"game_state": snap,
	})
}

func (s *server) handleReset(c *gin.Context) {
	err := s.sess.withEngine(func(e *engine.Engine) error {
		return e.Reset()
	})
	if err != nil {
		s.sessionError(c, err, "Game reset failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Game reset successfully"})
}

func (s *server) handleCacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cached_assets":       s.cache.Len(),
		"cache_directory":     s.cache.Dir(),
		"dalle_requests_made": s.sess.callsUsed(),
	})
}

func (s *server) handleCacheClear(c *gin.Context) {
	if err := s.cache.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to clear cache: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Asset cache cleared"})
}

// stepAndRender advances the simulation by one frame interval and
// encodes the rendered result. Step, snapshot and encode happen under a
// single session hold so concurrent pollers never see half a frame.
func (s *server) stepAndRender() (*bytes.Buffer, engine.Snapshot, error) {
	var (
		buf  bytes.Buffer
		snap engine.Snapshot
	)
	err := s.sess.withEngine(func(e *engine.Engine) error {
		if err := e.Advance(1.0 / float64(s.cfg.Game.FPS)); err != nil {
			return err
		}
		snap = e.Snapshot()
		return png.Encode(&buf, render.Frame(e))
	})
	return &buf, snap, err
}

func (s *server) gameParams() engine.Params {
	g := s.cfg.Game
	return engine.Params{
		ViewportWidth:  float64(g.ViewportWidth),
		ViewportHeight: float64(g.ViewportHeight),
		FPS:            g.FPS,
		Gravity:        g.Gravity,
		Friction:       g.Friction,
		MoveSpeed:      g.MoveSpeed,
		JumpForce:      g.JumpForce,
	}
}

func (s *server) sessionError(c *gin.Context, err error, prefix string) {
	if errors.Is(err, errNoSession) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No game initialized"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("%s: %v", prefix, err)})
}

// normalizeKeys folds browser key codes into the engine's logical key
// set, deduplicating while keeping first-seen order.
func normalizeKeys(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	for _, key := range raw {
		switch strings.ToLower(key) {
		case "arrowleft", "keya":
			add("left")
		case "arrowright", "keyd":
			add("right")
		case "arrowup", "keyw":
			add("up")
		case "arrowdown", "keys":
			add("down")
		case "space":
			add("space")
		default:
			add(strings.ToLower(key))
		}
	}
	return out
}
