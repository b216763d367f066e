package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

// improveRequest asks the chat model to rewrite a game description
// based on user feedback. The game travels as raw JSON so unknown
// fields survive the round trip.
type improveRequest struct {
	Game        map[string]any     `json:"game"`
	Improvement improvementDetails `json:"improvement"`
}

type improvementDetails struct {
	Type          string `json:"type"`
	Description   string `json:"description"`
	TargetElement string `json:"targetElement"`
}

const improvePromptTemplate = `Improve this game based on user feedback:

CURRENT GAME:
%s

USER REQUEST:
Type: %s
Description: %s
Target: %s

INSTRUCTIONS:
1. Analyze the user's request carefully
2. Modify the game JSON to implement their changes
3. If they want color changes, update entity colors and level backgrounds
4. If they want gameplay changes, modify physics, movement, or mechanics
5. If they want asset changes, update entity names or add new ones
6. Keep the same overall structure but improve based on feedback
7. Return ONLY the improved game JSON, no explanation

IMPROVED GAME JSON:`

func (s *server) handleImprove(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Game improvement failed: %v", err)})
		return
	}
	if req.Improvement.Type == "" {
		req.Improvement.Type = "general"
	}
	if req.Improvement.TargetElement == "" {
		req.Improvement.TargetElement = "all"
	}

	gameJSON, err := json.MarshalIndent(req.Game, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Game improvement failed: %v", err)})
		return
	}

	s.log.Info().
		Str("type", req.Improvement.Type).
		Str("target", req.Improvement.TargetElement).
		Msg("game improvement requested")

	prompt := fmt.Sprintf(improvePromptTemplate,
		gameJSON, req.Improvement.Type, req.Improvement.Description, req.Improvement.TargetElement)

	resp, err := s.chat.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
		Model:       s.cfg.Chat.Model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		MaxTokens:   3000,
		Temperature: 0.7,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Game improvement failed: %v", err)})
		return
	}
	if len(resp.Choices) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Game improvement failed: empty completion"})
		return
	}

	if improved := extractGameJSON(resp.Choices[0].Message.Content); improved != nil {
		c.JSON(http.StatusOK, improved)
		return
	}

	// The model answered but not with JSON we can use.
	s.log.Warn().Msg("could not parse improved game, applying local improvements")
	c.JSON(http.StatusOK, localImprovements(req.Game, req.Improvement.Type))
}

// Chat models wrap JSON in prose or code fences more often than not.
// Try the widest net first, then fenced variants.
var jsonExtractors = []*regexp.Regexp{
	regexp.MustCompile(`\{[\s\S]*\}`),
	regexp.MustCompile("```json\\s*(\\{[\\s\\S]*?\\})\\s*```"),
	regexp.MustCompile("```\\s*(\\{[\\s\\S]*?\\})\\s*```"),
}

var (
	trailingObjectComma = regexp.MustCompile(`,\s*\}`)
	trailingArrayComma  = regexp.MustCompile(`,\s*\]`)
)

// extractGameJSON pulls the first parseable JSON object out of a chat
// reply, tolerating code fences and trailing commas.
func extractGameJSON(content string) map[string]any {
	for _, re := range jsonExtractors {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		raw := m[0]
		if len(m) > 1 && m[1] != "" {
			raw = m[1]
		}

		raw = strings.TrimSpace(raw)
		raw = trailingObjectComma.ReplaceAllString(raw, "}")
		raw = trailingArrayComma.ReplaceAllString(raw, "]")

		var game map[string]any
		if err := json.Unmarshal([]byte(raw), &game); err == nil {
			return game
		}
	}
	return nil
}

// localImprovements applies the canned edits used when the model's
// reply cannot be parsed: recolor the player, enemies, stars and the
// first level's background. Other improvement types pass the game
// through unchanged.
func localImprovements(game map[string]any, kind string) map[string]any {
	if kind != "color" {
		return game
	}

	if entities, ok := game["entities"].([]any); ok {
		for _, raw := range entities {
			entity, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name, _ := entity["name"].(string)
			typ, _ := entity["type"].(string)
			switch {
			case typ == "player":
				entity["color"] = "#00FFFF"
			case strings.Contains(strings.ToLower(name), "enemy"):
				entity["color"] = "#FF4444"
			case strings.Contains(strings.ToLower(name), "star"):
				entity["color"] = "#FFD700"
			}
		}
	}
	if levels, ok := game["levels"].([]any); ok && len(levels) > 0 {
		if level, ok := levels[0].(map[string]any); ok {
			level["background"] = "#1a1a2e"
		}
	}
	return game
}
