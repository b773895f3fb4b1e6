package controllers

import (
	"akd/internal/services"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	achievements services.AchievementServiceInterface
	notifier     services.NotifierServiceInterface
	startTime    time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Unlocked      int     `json:"unlocked"`
	QueueDepth    int     `json:"queue_depth"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	unlocked := 0
	for _, rec := range hc.achievements.GetAll() {
		if rec.Unlocked {
			unlocked++
		}
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Unlocked:      unlocked,
		QueueDepth:    hc.notifier.QueueDepth(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(achievements services.AchievementServiceInterface, notifier services.NotifierServiceInterface) *HealthController {
	return &HealthController{
		achievements: achievements,
		notifier:     notifier,
		startTime:    time.Now(),
	}
}
