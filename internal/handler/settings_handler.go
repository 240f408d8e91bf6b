package handler

import (
	"net/http"

	"github.com/flohub/flohub/internal/service"
	"github.com/gin-gonic/gin"
)

// GetUserSettings 返回用户设置，缺失时回填默认值
func (a *API) GetUserSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := a.settings.GetSettings(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

// UpdateUserSettings 更新用户设置
func (a *API) UpdateUserSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload struct {
		FloCatStyle      string   `json:"flocat_style"`
		PreferredName    string   `json:"preferred_name"`
		Timezone         string   `json:"timezone"`
		CalendarSources  []string `json:"calendar_sources"`
		SelectedCals     []string `json:"selected_cals"`
		PowerAutomateURL string   `json:"power_automate_url"`
	}
	if !bindJSON(c, &payload, "invalid settings payload") {
		return
	}

	settings, err := a.settings.UpdateSettings(userID, service.UserSettingsInput{
		FloCatStyle:      payload.FloCatStyle,
		PreferredName:    payload.PreferredName,
		Timezone:         payload.Timezone,
		CalendarSources:  payload.CalendarSources,
		SelectedCals:     payload.SelectedCals,
		PowerAutomateURL: payload.PowerAutomateURL,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

func settingsToPayload(settings service.UserSettings) gin.H {
	return gin.H{
		"flocat_style":       settings.FloCatStyle,
		"preferred_name":     settings.PreferredName,
		"timezone":           settings.Timezone,
		"calendar_sources":   settings.CalendarSources,
		"selected_cals":      settings.SelectedCals,
		"power_automate_url": settings.PowerAutomateURL,
	}
}
