package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"hybrid-sizer/internal/api/models"
	"hybrid-sizer/internal/config"
)

// StorageHandler handles storage-preset requests
type StorageHandler struct {
	storageDir string
}

// NewStorageHandler creates a new storage handler.
func NewStorageHandler(storageDir string) *StorageHandler {
	return &StorageHandler{storageDir: storageDir}
}

// GetStorageDir returns the preset directory path (for debugging)
func (h *StorageHandler) GetStorageDir() string {
	return h.storageDir
}

// ListStorage handles GET /api/v1/storage
func (h *StorageHandler) ListStorage(c *gin.Context) {
	presets := []models.StorageInfo{}

	entries, err := os.ReadDir(h.storageDir)
	if err != nil {
		log.Printf("StorageHandler: failed to read storage directory %s: %v", h.storageDir, err)
		c.JSON(http.StatusOK, gin.H{"storage": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(h.storageDir, entry.Name())
		info, err := h.loadStorageInfo(path, entry.Name())
		if err != nil {
			log.Printf("StorageHandler: failed to load preset %s: %v", path, err)
			continue // Skip invalid files
		}
		presets = append(presets, *info)
	}

	c.JSON(http.StatusOK, gin.H{"storage": presets})
}

func (h *StorageHandler) loadStorageInfo(path, filename string) (*models.StorageInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Storage config.StorageConfig `yaml:"storage"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(filename, ".yaml")
	name := wrapper.Storage.Name
	if name == "" {
		name = id
	}

	return &models.StorageInfo{
		ID:   id,
		Name: name,
		File: path,
		Specs: models.StorageSpecs{
			DurationHours:     wrapper.Storage.DurationHours,
			PowerCapexPerKW:   wrapper.Storage.PowerCapexPerKW,
			EnergyCapexPerKWh: wrapper.Storage.EnergyCapexPerKWh,
		},
	}, nil
}
