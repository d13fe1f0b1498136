package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"msd/internal/models"
	"msd/internal/platform"
	"msd/internal/providers"
	"msd/internal/scheduler"
	"msd/internal/services"
	"msd/internal/store"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const defaultCleanupDays = 30

type ApiController struct {
	logger   providers.Logger
	service  services.StatsServiceInterface
	settings store.SettingsStoreInterface
	sched    scheduler.SchedulerInterface
	archiver *store.Archiver
	routes   *platform.RouteBook
	renderer platform.Renderer
	cache    providers.DataCache
}

func NewApiController(logger providers.Logger, service services.StatsServiceInterface, settings store.SettingsStoreInterface, sched scheduler.SchedulerInterface, archiver *store.Archiver, routes *platform.RouteBook, renderer platform.Renderer, cache providers.DataCache) *ApiController {
	return &ApiController{
		logger:   logger,
		service:  service,
		settings: settings,
		sched:    sched,
		archiver: archiver,
		routes:   routes,
		renderer: renderer,
		cache:    cache,
	}
}

func getGroup(r *http.Request) string {
	return r.URL.Query().Get("g")
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrInvalidGroupID) || errors.Is(err, services.ErrInvalidUserID) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

type messagePayload struct {
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Route    string `json:"route"`
}

// ReceiveMessage records one message event. When the payload carries a
// delivery route, it is learned for scheduled pushes.
func (ac *ApiController) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload messagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	settings, err := ac.settings.Load()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !settings.AutoRecord {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := ac.service.RecordMessage(payload.GroupID, payload.UserID, payload.Nickname); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.routes.Learn(payload.GroupID, payload.Route)
	w.WriteHeader(http.StatusCreated)
}

// GetRank serves the leaderboard for a group. format=text renders the
// message body a push would send; the default is structured JSON.
func (ac *ApiController) GetRank(w http.ResponseWriter, r *http.Request) {
	groupID := getGroup(r)
	rankType, err := models.ParseRankType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := ac.settings.Load()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	limit := settings.DisplayLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = cast.ToInt(raw)
		if limit < 1 || limit > 100 {
			http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
	}

	rank, err := ac.service.Rank(groupID, rankType, limit)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		artifact, err := ac.renderer.Render(rank, r.URL.Query().Get("u"))
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ac.writeJSON(w, http.StatusOK, artifact)
		return
	}
	ac.writeJSON(w, http.StatusOK, rank)
}

// GetSummary serves the all-groups roll-up, or the detailed statistics of a
// single group when the g parameter is present.
func (ac *ApiController) GetSummary(w http.ResponseWriter, r *http.Request) {
	if groupID := getGroup(r); groupID != "" {
		ac.serveFromCacheOrCompute(w, "summary:"+groupID, func() (any, error) {
			return ac.service.GroupStats(groupID)
		})
		return
	}
	ac.serveFromCacheOrCompute(w, "summary", func() (any, error) {
		return ac.service.Summary()
	})
}

func (ac *ApiController) GetGroups(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "groups", func() (any, error) {
		return ac.service.Groups()
	})
}

func (ac *ApiController) ClearGroup(w http.ResponseWriter, r *http.Request) {
	groupID := getGroup(r)
	if err := ac.service.ClearGroup(groupID); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Settings serves the plugin settings on GET and updates them on POST. The
// update is partial: the body is decoded over the current settings, so
// omitted fields keep their values. A successful update reloads the
// scheduler so a new push spec takes effect.
func (ac *ApiController) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := ac.settings.Load()
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ac.writeJSON(w, http.StatusOK, settings)
	case http.MethodPost:
		current, err := ac.settings.Load()
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		settings := *current
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := settings.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := scheduler.NextFireTime(settings.PushSpec, time.Now()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ac.settings.Save(&settings); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := ac.sched.Reload(); err != nil && !errors.Is(err, scheduler.ErrNotRunning) {
			ac.logger.Warnf(providers.TypeApp, "Scheduler reload after settings change failed: %s", err)
		}
		ac.writeJSON(w, http.StatusOK, &settings)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (ac *ApiController) ScheduleStatus(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.sched.Status())
}

func (ac *ApiController) ScheduleEnable(w http.ResponseWriter, r *http.Request) {
	if err := ac.sched.Start(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	ac.writeJSON(w, http.StatusOK, ac.sched.Status())
}

func (ac *ApiController) ScheduleDisable(w http.ResponseWriter, r *http.Request) {
	ac.sched.Stop()
	ac.writeJSON(w, http.StatusOK, ac.sched.Status())
}

func (ac *ApiController) SchedulePause(w http.ResponseWriter, r *http.Request) {
	if err := ac.sched.Pause(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	ac.writeJSON(w, http.StatusOK, ac.sched.Status())
}

func (ac *ApiController) ScheduleResume(w http.ResponseWriter, r *http.Request) {
	if err := ac.sched.Resume(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	ac.writeJSON(w, http.StatusOK, ac.sched.Status())
}

// PushNow triggers a push out of schedule. An optional body {"group_id":...}
// narrows the push to a single group; an empty body pushes to every target.
func (ac *ApiController) PushNow(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		GroupID string `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.GroupID != "" {
		if err := services.ValidateGroupID(payload.GroupID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := ac.sched.PushNow(payload.GroupID); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Backup(w http.ResponseWriter, r *http.Request) {
	paths, err := ac.archiver.BackupAll()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, map[string]any{"archives": paths})
}

func (ac *ApiController) Cleanup(w http.ResponseWriter, r *http.Request) {
	days := defaultCleanupDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days = cast.ToInt(raw)
		if days < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
	}
	removed, err := ac.archiver.CleanupOlderThan(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Clear()
	ac.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
