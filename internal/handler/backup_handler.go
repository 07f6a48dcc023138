package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportBackup 以附件形式导出全部数据
func (a *API) ExportBackup(c *gin.Context) {
	backup, err := a.backups.Export(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to export backup")
		return
	}

	filename := fmt.Sprintf("burnit-backup-%s.json", ledger.Today(a.now()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, backup)
}

// ImportBackup 用上传的备份替换全部数据
func (a *API) ImportBackup(c *gin.Context) {
	var backup service.Backup
	if !bindJSON(c, &backup, "Invalid backup file format") {
		return
	}

	stats, err := a.backups.Import(c.Request.Context(), backup)
	if err != nil {
		if errors.Is(err, service.ErrBackupInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c, err, "Failed to import backup")
		return
	}

	a.log.Info("backup imported",
		zap.Int("foods", stats.Foods),
		zap.Int("goals", stats.Goals),
		zap.Int("favorites", stats.Favorites),
	)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Backup imported successfully",
		"imported": stats,
	})
}
