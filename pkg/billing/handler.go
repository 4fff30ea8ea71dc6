package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type MonthBucketDTO struct {
	Label        string             `json:"label"`
	MediaCosts   map[string]float64 `json:"mediaCosts"`
	TotalMedia   float64            `json:"totalMedia"`
	TotalFee     float64            `json:"totalFee"`
	AdServingFee float64            `json:"adServingFee"`
	Production   float64            `json:"production"`
	TotalAmount  float64            `json:"totalAmount"`
}

type ScheduleDTO struct {
	MbaNumber     string           `json:"mbaNumber"`
	VersionNumber int              `json:"versionNumber"`
	Months        []MonthBucketDTO `json:"months"`
	GrandTotal    float64          `json:"grandTotal"`
	Manual        bool             `json:"manual"`
}

type EditDTO struct {
	Month     string  `json:"month"`
	Field     string  `json:"field"`
	MediaType string  `json:"mediaType,omitempty"`
	Amount    float64 `json:"amount"`
}

// ScheduleRenderer renders a schedule for file export.
type ScheduleRenderer interface {
	RenderSchedule(schedule Schedule) (string, error)
}

type Handler struct {
	service  Service
	renderer ScheduleRenderer
}

func NewScheduleHandler(service Service, renderer ScheduleRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetSchedule godoc
// @Summary Get the billing schedule for a plan version
// @Description Returns the manual schedule if one is saved, otherwise the computed one. CSV export via Accept: text/csv.
// @Tags Billing
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Success 200 {object} ScheduleDTO
// @Failure 404 {string} string "Plan version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule [get]
func (handler *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting billing schedule")
	mbaNumber, versionNumber, ok := scheduleVars(w, r)
	if !ok {
		return
	}

	schedule, err := handler.service.GetSchedule(r.Context(), mbaNumber, versionNumber)
	if err != nil {
		writeScheduleError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := handler.renderer.RenderSchedule(schedule)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ScheduleToDTO(schedule)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SaveManualSchedule godoc
// @Summary Save a manual billing schedule
// @Description Applies the submitted edits and persists the result if it matches the plan budget within tolerance
// @Tags Billing
// @Accept json
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Param edits body []EditDTO true "Edits"
// @Success 200 {object} ScheduleDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 422 {string} string "Budget mismatch"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule/manual [put]
func (handler *Handler) SaveManualSchedule(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving manual billing schedule")
	mbaNumber, versionNumber, ok := scheduleVars(w, r)
	if !ok {
		return
	}

	var editDTOs []EditDTO
	if err := json.NewDecoder(r.Body).Decode(&editDTOs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	edits := make([]Edit, 0, len(editDTOs))
	for _, dto := range editDTOs {
		edits = append(edits, Edit{
			Month:     dto.Month,
			Field:     EditField(dto.Field),
			MediaType: mediaplan.MediaType(dto.MediaType),
			Amount:    decimal.NewFromFloat(dto.Amount),
		})
	}

	schedule, err := handler.service.SaveManualSchedule(r.Context(), mbaNumber, versionNumber, edits)
	if err != nil {
		if errors.Is(err, ErrBudgetMismatch) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, ErrUnknownMonth) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeScheduleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ScheduleToDTO(schedule)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ResetManualSchedule godoc
// @Summary Discard the manual billing schedule
// @Description Deletes the manual schedule and returns the machine-computed one
// @Tags Billing
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Success 200 {object} ScheduleDTO
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/schedule/manual [delete]
func (handler *Handler) ResetManualSchedule(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting manual billing schedule")
	mbaNumber, versionNumber, ok := scheduleVars(w, r)
	if !ok {
		return
	}

	schedule, err := handler.service.ResetManualSchedule(r.Context(), mbaNumber, versionNumber)
	if err != nil {
		writeScheduleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ScheduleToDTO(schedule)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func scheduleVars(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	mbaNumber := vars["mbaNumber"]
	versionNumber, err := strconv.Atoi(vars["versionNumber"])
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return "", 0, false
	}
	return mbaNumber, versionNumber, true
}

func writeScheduleError(w http.ResponseWriter, err error) {
	if errors.Is(err, mediaplan.ErrPlanNotFound) || errors.Is(err, mediaplan.ErrVersionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func ScheduleToDTO(schedule Schedule) ScheduleDTO {
	months := make([]MonthBucketDTO, 0, len(schedule.Months))
	for _, bucket := range schedule.Months {
		mediaCosts := make(map[string]float64, len(bucket.MediaCosts))
		for mt, cost := range bucket.MediaCosts {
			mediaCosts[string(mt)] = cost.InexactFloat64()
		}
		months = append(months, MonthBucketDTO{
			Label:        bucket.Label,
			MediaCosts:   mediaCosts,
			TotalMedia:   bucket.TotalMedia.InexactFloat64(),
			TotalFee:     bucket.TotalFee.InexactFloat64(),
			AdServingFee: bucket.AdServingFee.InexactFloat64(),
			Production:   bucket.Production.InexactFloat64(),
			TotalAmount:  bucket.TotalAmount.InexactFloat64(),
		})
	}
	return ScheduleDTO{
		MbaNumber:     schedule.MbaNumber,
		VersionNumber: schedule.VersionNumber,
		Months:        months,
		GrandTotal:    schedule.GrandTotal.InexactFloat64(),
		Manual:        schedule.Manual,
	}
}
