package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polarhive/timetable-backend/internal/model"
	"github.com/polarhive/timetable-backend/internal/repository"
	"github.com/polarhive/timetable-backend/internal/response"
	"github.com/polarhive/timetable-backend/internal/scraper"
	"github.com/polarhive/timetable-backend/internal/service"
	"github.com/polarhive/timetable-backend/internal/timetable"
	"github.com/polarhive/timetable-backend/internal/validator"
)

type TimetableHandler struct {
	timetableService *service.TimetableService
	compareService   *service.CompareService
	calendarService  *service.CalendarService
	subjectService   *service.SubjectMapService
}

func NewTimetableHandler(
	timetableService *service.TimetableService,
	compareService *service.CompareService,
	calendarService *service.CalendarService,
	subjectService *service.SubjectMapService,
) *TimetableHandler {
	return &TimetableHandler{
		timetableService: timetableService,
		compareService:   compareService,
		calendarService:  calendarService,
		subjectService:   subjectService,
	}
}

// Fetch godoc
// POST /api/v1/timetable
func (h *TimetableHandler) Fetch(c *gin.Context) {
	var req model.FetchTimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	name, grid, err := h.timetableService.FetchAndStore(c.Request.Context(), req.SRN, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"name": name, "timetable": grid})
}

// List godoc
// GET /api/v1/timetables?page=&per_page=
func (h *TimetableHandler) List(c *gin.Context) {
	index, err := h.timetableService.ListStored(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if index == nil {
		index = []model.StoredTimetable{}
	}

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	total := len(index)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	response.SuccessWithPagination(c, http.StatusOK,
		gin.H{"timetables": index[start:end]},
		&response.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
			TotalPages: totalPages,
		})
}

// Get godoc
// GET /api/v1/timetable/:name
func (h *TimetableHandler) Get(c *gin.Context) {
	grid, err := h.timetableService.GetStored(c.Request.Context(), c.Param("name"))
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"timetable": grid})
}

// CompareLive godoc
// POST /api/v1/compare
func (h *TimetableHandler) CompareLive(c *gin.Context) {
	var req model.CompareRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.compareService.CompareLive(c.Request.Context(), req.User1, req.User2)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// CompareStored godoc
// POST /api/v1/compare/stored
func (h *TimetableHandler) CompareStored(c *gin.Context) {
	var req model.CompareStoredRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.compareService.CompareStored(c.Request.Context(), req.Name1, req.Name2)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Render godoc
// GET /api/v1/timetable/:name/render
func (h *TimetableHandler) Render(c *gin.Context) {
	grid, err := h.timetableService.GetStored(c.Request.Context(), c.Param("name"))
	if err != nil {
		failFromError(c, err)
		return
	}

	// Column merging is opt-in; a plain render keeps every slot its own
	// colspan-1 column.
	opts := timetable.RenderOptions{
		ShowTeachers: boolQuery(c, "teachers", false),
		ShowBreaks:   boolQuery(c, "breaks", true),
		HideEmpty:    boolQuery(c, "hide_empty", false),
		MergeColumns: boolQuery(c, "merge", false),
		SubjectNames: h.subjectService.Get(c.Request.Context()),
	}
	response.Success(c, http.StatusOK, timetable.Assemble(grid, opts))
}

// ExportStoredICal godoc
// GET /api/v1/timetable/:name/ical
func (h *TimetableHandler) ExportStoredICal(c *gin.Context) {
	grid, err := h.timetableService.GetStored(c.Request.Context(), c.Param("name"))
	if err != nil {
		failFromError(c, err)
		return
	}

	start, ok := startDateQuery(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return
	}

	h.writeICS(c, grid, start, c.Param("name"))
}

// ExportLiveICal godoc
// POST /api/v1/timetable/ical
func (h *TimetableHandler) ExportLiveICal(c *gin.Context) {
	var req model.ExportLiveICalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	start := time.Now()
	if req.Start != "" {
		parsed, err := time.Parse("2006-01-02", req.Start)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		start = parsed
	}

	grid, err := h.timetableService.FetchGrid(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}

	h.writeICS(c, grid, start, timetable.DeriveName(req.Username, grid.Meta))
}

func (h *TimetableHandler) writeICS(c *gin.Context, grid model.WeekGrid, start time.Time, name string) {
	subjects := h.subjectService.Get(c.Request.Context())
	ics := h.calendarService.BuildICS(grid, start, subjects)

	c.Header("Content-Disposition", `attachment; filename="`+name+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// failFromError maps domain errors onto response codes. Unknown errors are
// reported as internal.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scraper.ErrAuthentication):
		response.Fail(c, http.StatusForbidden, response.ErrAuthFailed)
	case errors.Is(err, scraper.ErrScrape):
		response.Fail(c, http.StatusBadGateway, response.ErrScrapeFailed)
	case errors.Is(err, timetable.ErrMalformedInput):
		response.Fail(c, http.StatusBadGateway, response.ErrMalformedTimetable)
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// startDateQuery reads the optional ?start=YYYY-MM-DD parameter, defaulting
// to today.
func startDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("start")
	if raw == "" {
		return time.Now(), true
	}
	start, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolQuery(c *gin.Context, key string, fallback bool) bool {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
