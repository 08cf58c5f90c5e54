package controllers

import (
	"fmt"
	"net/http"
	"spotr/internal/kvstore"
	"spotr/internal/structures"
	"time"
)

type HealthController struct {
	store     kvstore.StoreInterface
	driver    string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Driver        string  `json:"driver"`
	StoredKeys    int     `json:"stored_keys"`
}

// Health reports "degraded" with a 503 when the store cannot list its keys.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Driver:        hc.driver,
	}

	status := http.StatusOK
	keys, err := hc.store.ListKeys(r.Context(), "")
	if err != nil {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	resp.StoredKeys = len(keys)

	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store kvstore.StoreInterface, conf *structures.Config) *HealthController {
	return &HealthController{
		store:     store,
		driver:    conf.Storage.Driver,
		startTime: time.Now(),
	}
}
