package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/services"
	"github.com/eventdesk/backend/store"
)

// Events handles event CRUD and the optional image upload.
type Events struct {
	events    store.EventStore
	live      *services.LiveHub
	baseURL   string
	staticDir string
}

// NewEvents creates the events handler. live may be nil when the live feed
// is disabled.
func NewEvents(events store.EventStore, live *services.LiveHub, baseURL, staticDir string) *Events {
	return &Events{
		events:    events,
		live:      live,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		staticDir: staticDir,
	}
}

type eventForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Date        string `form:"date" binding:"required"`
	Time        string `form:"time" binding:"required"`
}

// List handles GET /events/
func (h *Events) List(c *gin.Context) {
	offset, limit := pageParams(c)
	events, err := h.events.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create handles POST /events/
func (h *Events) Create(c *gin.Context) {
	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	imageURL, err := h.saveImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	event := models.Event{
		Title:       form.Title,
		Description: form.Description,
		Date:        form.Date,
		Time:        form.Time,
		ImageURL:    imageURL,
	}
	if err := h.events.Create(&event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	if h.live != nil {
		h.live.Publish("created", event)
	}
	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /events/:id. When no new image is uploaded the stored
// image URL is preserved.
func (h *Events) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	event, err := h.events.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, err, "Event not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	imageURL, err := h.saveImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	event.Title = form.Title
	event.Description = form.Description
	event.Date = form.Date
	event.Time = form.Time
	if imageURL != nil {
		event.ImageURL = imageURL
	}

	if err := h.events.Update(event); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, err, "Event not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	if h.live != nil {
		h.live.Publish("updated", *event)
	}
	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id
func (h *Events) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.events.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, err, "Event not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	if err := h.events.Delete(uint(id)); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, err, "Event not found")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	if h.live != nil {
		h.live.Publish("deleted", *event)
	}
	c.Status(http.StatusNoContent)
}

// saveImage stores an optional uploaded image and returns the public URL,
// or nil when no image was part of the request.
func (h *Events) saveImage(c *gin.Context) (*string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	filename := fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(file.Filename))
	dir := filepath.Join(h.staticDir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/static/images/%s", h.baseURL, filename)
	return &url, nil
}
