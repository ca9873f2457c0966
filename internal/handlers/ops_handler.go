package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"engrave-backend/pkg/utils"
)

// OpsHandler exposes host and process stats for the admin dashboard.
type OpsHandler struct {
	db      *pgxpool.Pool
	started time.Time
}

func NewOpsHandler(db *pgxpool.Pool) *OpsHandler {
	return &OpsHandler{db: db, started: time.Now()}
}

type opsStats struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	MemUsedMB      uint64  `json:"mem_used_mb"`
	DiskUsed       float64 `json:"disk_used_percent"`
	Goroutines     int     `json:"goroutines"`
	DBConnections  int32   `json:"db_connections"`
}

func (h *OpsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := opsStats{
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}

	if cpuPercents, err := cpu.Percent(0, false); err == nil && len(cpuPercents) > 0 {
		stats.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = memStats.UsedPercent
		stats.MemUsedMB = memStats.Used / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		stats.DiskUsed = diskStats.UsedPercent
	}
	if h.db != nil {
		stats.DBConnections = h.db.Stat().TotalConns()
	}

	utils.JSON(w, http.StatusOK, stats)
}
