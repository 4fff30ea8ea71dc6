package mediaplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type MediaPlanDTO struct {
	MbaNumber    string           `json:"mbaNumber"`
	Uid          string           `json:"uid,omitempty"`
	ClientSlug   string           `json:"clientSlug"`
	ClientName   string           `json:"clientName"`
	CampaignName string           `json:"campaignName"`
	Versions     []PlanVersionDTO `json:"versions,omitempty"`
}

type PlanVersionDTO struct {
	MbaNumber     string        `json:"mbaNumber"`
	VersionNumber int           `json:"versionNumber"`
	Status        string        `json:"status"`
	CampaignStart string        `json:"campaignStart"`
	CampaignEnd   string        `json:"campaignEnd"`
	Budget        float64       `json:"budget"`
	LineItems     []LineItemDTO `json:"lineItems,omitempty"`
}

type LineItemDTO struct {
	Id        int           `json:"id"`
	MediaType string        `json:"mediaType"`
	Bursts    []BurstRecord `json:"bursts"`
}

type StatusChangeDTO struct {
	Status string `json:"status"`
}

type Handler struct {
	service Service
}

func NewMediaPlanHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPlans godoc
// @Summary List all media plans
// @Tags MediaPlan
// @Produce json
// @Success 200 {array} MediaPlanDTO
// @Router /api/mediaplan [get]
func (handler *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing media plans")
	plans, err := handler.service.ListPlans(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]MediaPlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, planToDTO(plan))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreatePlan godoc
// @Summary Create a media plan with its first version
// @Tags MediaPlan
// @Accept json
// @Produce json
// @Param plan body MediaPlanDTO true "Media plan"
// @Success 201 {object} MediaPlanDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/mediaplan [post]
func (handler *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating media plan")
	var dto MediaPlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := planFromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreatePlan(r.Context(), plan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(planToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetPlan godoc
// @Summary Get a media plan with all its versions
// @Tags MediaPlan
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Success 200 {object} MediaPlanDTO
// @Failure 404 {string} string "Plan not found"
// @Router /api/mediaplan/{mbaNumber} [get]
func (handler *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	mbaNumber := mux.Vars(r)["mbaNumber"]
	log.Debugf("Getting media plan %s", mbaNumber)

	plan, err := handler.service.GetPlan(r.Context(), mbaNumber)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(planToDTO(plan)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdatePlan godoc
// @Summary Update a media plan's header fields
// @Tags MediaPlan
// @Accept json
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param plan body MediaPlanDTO true "Media plan"
// @Success 200 {object} MediaPlanDTO
// @Failure 404 {string} string "Plan not found"
// @Router /api/mediaplan/{mbaNumber} [put]
func (handler *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	mbaNumber := mux.Vars(r)["mbaNumber"]

	var dto MediaPlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.MbaNumber = mbaNumber
	plan, err := planFromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdatePlan(r.Context(), plan)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(planToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeletePlan godoc
// @Summary Delete a media plan and everything under it
// @Tags MediaPlan
// @Param mbaNumber path string true "MBA number"
// @Success 204 "No Content"
// @Failure 404 {string} string "Plan not found"
// @Router /api/mediaplan/{mbaNumber} [delete]
func (handler *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	mbaNumber := mux.Vars(r)["mbaNumber"]
	log.Debugf("Deleting media plan %s", mbaNumber)

	deleted, err := handler.service.DeletePlan(r.Context(), mbaNumber)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Plan not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateVersion godoc
// @Summary Cut a new version of a media plan
// @Tags MediaPlan
// @Accept json
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param version body PlanVersionDTO true "Plan version"
// @Success 201 {object} PlanVersionDTO
// @Failure 404 {string} string "Plan not found"
// @Router /api/mediaplan/{mbaNumber}/version [post]
func (handler *Handler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	mbaNumber := mux.Vars(r)["mbaNumber"]

	var dto PlanVersionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.MbaNumber = mbaNumber
	version, err := versionFromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreateVersion(r.Context(), version)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(versionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetVersion godoc
// @Summary Get one plan version with its line items
// @Tags MediaPlan
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Success 200 {object} PlanVersionDTO
// @Failure 404 {string} string "Version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber} [get]
func (handler *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := versionVars(w, r)
	if !ok {
		return
	}

	version, err := handler.service.GetVersion(r.Context(), mbaNumber, versionNumber)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(versionToDTO(version)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateVersionStatus godoc
// @Summary Change a plan version's lifecycle status
// @Tags MediaPlan
// @Accept json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Param status body StatusChangeDTO true "New status"
// @Success 204 "No Content"
// @Failure 400 {string} string "Unknown status"
// @Failure 404 {string} string "Version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/status [put]
func (handler *Handler) UpdateVersionStatus(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := versionVars(w, r)
	if !ok {
		return
	}

	var dto StatusChangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := Status(dto.Status)
	switch status {
	case StatusDraft, StatusPlanned, StatusApproved, StatusBooked, StatusCompleted, StatusCancelled:
	default:
		http.Error(w, "Unknown status: "+dto.Status, http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateVersionStatus(r.Context(), mbaNumber, versionNumber, status); err != nil {
		writePlanError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLineItems godoc
// @Summary List the line items of a plan version
// @Tags MediaPlan
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Success 200 {array} LineItemDTO
// @Failure 404 {string} string "Version not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/lineitem [get]
func (handler *Handler) ListLineItems(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := versionVars(w, r)
	if !ok {
		return
	}

	version, err := handler.service.GetVersion(r.Context(), mbaNumber, versionNumber)
	if err != nil {
		writePlanError(w, err)
		return
	}

	dtos := make([]LineItemDTO, 0, len(version.LineItems))
	for _, item := range version.LineItems {
		dtos = append(dtos, lineItemToDTO(item))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateLineItem godoc
// @Summary Replace a line item's media type and burst records
// @Tags MediaPlan
// @Accept json
// @Produce json
// @Param mbaNumber path string true "MBA number"
// @Param versionNumber path int true "Version number"
// @Param lineItemId path int true "Line item id"
// @Param item body LineItemDTO true "Line item"
// @Success 200 {object} LineItemDTO
// @Failure 404 {string} string "Line item not found"
// @Router /api/mediaplan/{mbaNumber}/version/{versionNumber}/lineitem/{lineItemId} [put]
func (handler *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	mbaNumber, versionNumber, ok := versionVars(w, r)
	if !ok {
		return
	}
	lineItemId, err := strconv.Atoi(mux.Vars(r)["lineItemId"])
	if err != nil {
		http.Error(w, "Invalid line item id", http.StatusBadRequest)
		return
	}

	var dto LineItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mediaType, ok := ParseMediaType(dto.MediaType)
	if !ok {
		http.Error(w, "Unknown media type: "+dto.MediaType, http.StatusBadRequest)
		return
	}

	item := LineItem{
		Id:            lineItemId,
		MbaNumber:     mbaNumber,
		VersionNumber: versionNumber,
		MediaType:     mediaType,
		Bursts:        dto.Bursts,
	}

	updated, err := handler.service.UpdateLineItem(r.Context(), item)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(lineItemToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func versionVars(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	mbaNumber := vars["mbaNumber"]
	versionNumber, err := strconv.Atoi(vars["versionNumber"])
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return "", 0, false
	}
	return mbaNumber, versionNumber, true
}

func writePlanError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrPlanNotFound) || errors.Is(err, ErrVersionNotFound) || errors.Is(err, ErrLineItemNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func planToDTO(plan MediaPlan) MediaPlanDTO {
	versions := make([]PlanVersionDTO, 0, len(plan.Versions))
	for _, version := range plan.Versions {
		versions = append(versions, versionToDTO(version))
	}
	return MediaPlanDTO{
		MbaNumber:    plan.MbaNumber,
		Uid:          plan.Uid,
		ClientSlug:   plan.ClientSlug,
		ClientName:   plan.ClientName,
		CampaignName: plan.CampaignName,
		Versions:     versions,
	}
}

func planFromDTO(dto MediaPlanDTO) (MediaPlan, error) {
	versions := make([]PlanVersion, 0, len(dto.Versions))
	for _, versionDTO := range dto.Versions {
		versionDTO.MbaNumber = dto.MbaNumber
		version, err := versionFromDTO(versionDTO)
		if err != nil {
			return MediaPlan{}, err
		}
		versions = append(versions, version)
	}
	return MediaPlan{
		MbaNumber:    dto.MbaNumber,
		Uid:          dto.Uid,
		ClientSlug:   dto.ClientSlug,
		ClientName:   dto.ClientName,
		CampaignName: dto.CampaignName,
		Versions:     versions,
	}, nil
}

func versionToDTO(version PlanVersion) PlanVersionDTO {
	items := make([]LineItemDTO, 0, len(version.LineItems))
	for _, item := range version.LineItems {
		items = append(items, lineItemToDTO(item))
	}
	return PlanVersionDTO{
		MbaNumber:     version.MbaNumber,
		VersionNumber: version.VersionNumber,
		Status:        string(version.Status),
		CampaignStart: version.CampaignStart.Format(time.DateOnly),
		CampaignEnd:   version.CampaignEnd.Format(time.DateOnly),
		Budget:        version.Budget.InexactFloat64(),
		LineItems:     items,
	}
}

func versionFromDTO(dto PlanVersionDTO) (PlanVersion, error) {
	start, err := time.Parse(time.DateOnly, dto.CampaignStart)
	if err != nil {
		return PlanVersion{}, fmt.Errorf("invalid campaign start date %q: %w", dto.CampaignStart, err)
	}
	end, err := time.Parse(time.DateOnly, dto.CampaignEnd)
	if err != nil {
		return PlanVersion{}, fmt.Errorf("invalid campaign end date %q: %w", dto.CampaignEnd, err)
	}

	items := make([]LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		mediaType, ok := ParseMediaType(itemDTO.MediaType)
		if !ok {
			return PlanVersion{}, fmt.Errorf("unknown media type %q", itemDTO.MediaType)
		}
		items = append(items, LineItem{
			Id:            itemDTO.Id,
			MbaNumber:     dto.MbaNumber,
			VersionNumber: dto.VersionNumber,
			MediaType:     mediaType,
			Bursts:        itemDTO.Bursts,
		})
	}

	return PlanVersion{
		MbaNumber:     dto.MbaNumber,
		VersionNumber: dto.VersionNumber,
		Status:        Status(dto.Status),
		CampaignStart: start,
		CampaignEnd:   end,
		Budget:        decimal.NewFromFloat(dto.Budget),
		LineItems:     items,
	}, nil
}

func lineItemToDTO(item LineItem) LineItemDTO {
	return LineItemDTO{
		Id:        item.Id,
		MediaType: string(item.MediaType),
		Bursts:    item.Bursts,
	}
}
