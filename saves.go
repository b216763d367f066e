package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Save ids become file names, so only a conservative charset is let
// through.
var saveIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// saveRequest carries the raw game JSON plus whatever metadata the
// frontend wants to keep alongside it. Both blobs are stored verbatim.
type saveRequest struct {
	SaveData map[string]any `json:"save_data"`
	GameData map[string]any `json:"game_data"`
}

func (s *server) handleSaveGame(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Save failed: %v", err)})
		return
	}

	saveID, _ := req.SaveData["id"].(string)
	if saveID == "" {
		saveID = uuid.NewString()
	}
	if !saveIDPattern.MatchString(saveID) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid save id"})
		return
	}

	if err := os.MkdirAll(s.cfg.Server.SavesDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Save failed: %v", err)})
		return
	}
	if err := writeJSONFile(s.savePath("game", saveID), req.GameData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Save failed: %v", err)})
		return
	}
	if err := writeJSONFile(s.savePath("meta", saveID), req.SaveData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Save failed: %v", err)})
		return
	}

	title, _ := req.SaveData["title"].(string)
	s.log.Info().Str("title", title).Str("save_id", saveID).Msg("game saved")

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "Game saved successfully",
		"save_id":             saveID,
		"dalle_requests_used": s.sess.callsUsed(),
	})
}

func (s *server) handleLoadGame(c *gin.Context) {
	saveID := c.Param("id")
	if !saveIDPattern.MatchString(saveID) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid save id"})
		return
	}

	raw, err := os.ReadFile(s.savePath("game", saveID))
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Saved game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Load failed: %v", err)})
		return
	}

	s.log.Info().Str("save_id", saveID).Msg("game loaded")
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *server) handleListSaves(c *gin.Context) {
	entries, err := os.ReadDir(s.cfg.Server.SavesDir)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusOK, []any{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to list saves: %v", err)})
		return
	}

	saves := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "meta_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.cfg.Server.SavesDir, name))
		if err != nil {
			s.log.Warn().Str("file", name).Err(err).Msg("skipping unreadable save metadata")
			continue
		}
		var meta map[string]any
		if err := json.Unmarshal(raw, &meta); err != nil {
			s.log.Warn().Str("file", name).Err(err).Msg("skipping corrupt save metadata")
			continue
		}
		saves = append(saves, meta)
	}

	// Newest first.
	sort.Slice(saves, func(i, j int) bool {
		return metaTimestamp(saves[i]) > metaTimestamp(saves[j])
	})
	c.JSON(http.StatusOK, saves)
}

func (s *server) handleDeleteSave(c *gin.Context) {
	saveID := c.Param("id")
	if !saveIDPattern.MatchString(saveID) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid save id"})
		return
	}

	deleted := 0
	for _, kind := range []string{"game", "meta"} {
		err := os.Remove(s.savePath(kind, saveID))
		if err == nil {
			deleted++
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Delete failed: %v", err)})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Deleted %d files for save %s", deleted, saveID),
	})
}

func (s *server) savePath(kind, id string) string {
	return filepath.Join(s.cfg.Server.SavesDir, fmt.Sprintf("%s_%s.json", kind, id))
}

func writeJSONFile(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// metaTimestamp normalizes the frontend-supplied timestamp for sorting.
// ISO strings and epoch numbers both order correctly among themselves.
func metaTimestamp(meta map[string]any) string {
	switch v := meta["timestamp"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
