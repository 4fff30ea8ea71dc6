package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	log "github.com/sirupsen/logrus"
)

type BreakdownSliceDTO struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type MetricsDTO struct {
	ClientSlug         string              `json:"clientSlug,omitempty"`
	FyStart            string              `json:"fyStart"`
	FyEnd              string              `json:"fyEnd"`
	FySpend            float64             `json:"fySpend"`
	Last30DaysSpend    float64             `json:"last30DaysSpend"`
	MediaTypeBreakdown []BreakdownSliceDTO `json:"mediaTypeBreakdown"`
	CampaignBreakdown  []BreakdownSliceDTO `json:"campaignBreakdown"`
	EstimatedPlans     []string            `json:"estimatedPlans,omitempty"`
}

type Handler struct {
	service Service
}

func NewDashboardHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetDashboard godoc
// @Summary Get agency-wide spend metrics
// @Description Aggregates the current financial year and rolling 30-day spend across all clients
// @Tags Dashboard
// @Produce json
// @Success 200 {object} MetricsDTO
// @Router /api/dashboard [get]
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting agency dashboard")
	handler.writeDashboard(w, r, "")
}

// GetClientDashboard godoc
// @Summary Get spend metrics for one client
// @Tags Dashboard
// @Produce json
// @Param clientSlug path string true "Client slug"
// @Success 200 {object} MetricsDTO
// @Router /api/dashboard/{clientSlug} [get]
func (handler *Handler) GetClientDashboard(w http.ResponseWriter, r *http.Request) {
	clientSlug := mux.Vars(r)["clientSlug"]
	log.Debugf("Getting dashboard for client %s", clientSlug)
	handler.writeDashboard(w, r, clientSlug)
}

func (handler *Handler) writeDashboard(w http.ResponseWriter, r *http.Request, clientSlug string) {
	metrics, err := handler.service.GetDashboard(r.Context(), clientSlug)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metricsToDTO(metrics)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetDeliverySchedule godoc
// @Summary Get the stored delivery schedule of a plan version
// @Tags Dashboard
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Success 200 {array} DeliveryEntry
// @Failure 404 {string} string "Version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/deliveryschedule [get]
func (handler *Handler) GetDeliverySchedule(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := deliveryVars(w, r)
	if !ok {
		return
	}

	entries, err := handler.service.GetDeliverySchedule(r.Context(), mbaNumber, versionNumber)
	if err != nil {
		writeDeliveryError(w, err)
		return
	}
	if entries == nil {
		entries = []DeliveryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SaveDeliverySchedule godoc
// @Summary Replace the delivery schedule of a plan version
// @Tags Dashboard
// @Accept json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Param entries body []DeliveryEntry true "Delivery entries"
// @Success 204 "No Content"
// @Failure 404 {string} string "Version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/deliveryschedule [put]
func (handler *Handler) SaveDeliverySchedule(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := deliveryVars(w, r)
	if !ok {
		return
	}

	var entries []DeliveryEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.SaveDeliverySchedule(r.Context(), mbaNumber, versionNumber, entries); err != nil {
		writeDeliveryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deliveryVars(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	mbaNumber := vars["mbaNumber"]
	versionNumber, err := strconv.Atoi(vars["versionNumber"])
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return "", 0, false
	}
	return mbaNumber, versionNumber, true
}

func writeDeliveryError(w http.ResponseWriter, err error) {
	if errors.Is(err, mediaplan.ErrPlanNotFound) || errors.Is(err, mediaplan.ErrVersionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func metricsToDTO(metrics Metrics) MetricsDTO {
	return MetricsDTO{
		ClientSlug:         metrics.ClientSlug,
		FyStart:            metrics.FYStart.Format(time.DateOnly),
		FyEnd:              metrics.FYEnd.Format(time.DateOnly),
		FySpend:            metrics.FYSpend.InexactFloat64(),
		Last30DaysSpend:    metrics.Last30DaysSpend.InexactFloat64(),
		MediaTypeBreakdown: breakdownToDTO(metrics.MediaTypeBreakdown),
		CampaignBreakdown:  breakdownToDTO(metrics.CampaignBreakdown),
		EstimatedPlans:     metrics.EstimatedPlans,
	}
}

func breakdownToDTO(slices []BreakdownSlice) []BreakdownSliceDTO {
	dtos := make([]BreakdownSliceDTO, 0, len(slices))
	for _, slice := range slices {
		dtos = append(dtos, BreakdownSliceDTO{
			Label:      slice.Label,
			Amount:     slice.Amount.InexactFloat64(),
			Percentage: slice.Percentage.InexactFloat64(),
		})
	}
	return dtos
}
