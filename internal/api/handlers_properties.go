package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"renthub/internal/metrics"
	"renthub/internal/models"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func queryFloat(r *http.Request, name string) float64 {
	v, _ := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	return v
}

type listingsData struct {
	Properties []*models.Property `json:"properties"`
	Pagination models.Pagination  `json:"pagination"`
}

func listingFilter(r *http.Request) models.PropertyFilter {
	q := r.URL.Query()
	return models.PropertyFilter{
		Title:        q.Get("title"),
		Location:     q.Get("location"),
		MinRent:      queryFloat(r, "minRent"),
		MaxRent:      queryFloat(r, "maxRent"),
		Bedrooms:     queryInt(r, "bedrooms"),
		PropertyType: q.Get("propertyType"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	}
}

func listingCacheKey(f models.PropertyFilter) string {
	return fmt.Sprintf("t=%s&l=%s&min=%g&max=%g&b=%d&pt=%s&p=%d&n=%d",
		f.Title, f.Location, f.MinRent, f.MaxRent, f.Bedrooms, f.PropertyType, f.Page, f.Limit)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	filter := listingFilter(r)
	filter.Normalize()
	key := listingCacheKey(filter)

	if raw, ok := s.cache.Get(r.Context(), key); ok {
		metrics.IncCache("hit")
		respond(w, http.StatusOK, "", json.RawMessage(raw))
		return
	}
	metrics.IncCache("miss")

	properties, pagination, err := s.svc.Property.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	if properties == nil {
		properties = []*models.Property{}
	}

	data := listingsData{Properties: properties, Pagination: pagination}
	if raw, err := json.Marshal(data); err == nil {
		s.cache.Set(r.Context(), key, raw, models.ListingCacheTTL*time.Second)
	}
	respond(w, http.StatusOK, "", data)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	property, err := s.svc.Property.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", property)
}

func (s *Server) handleMyProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.svc.Property.OwnerProperties(r.Context(), actorFrom(r).ID)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", properties)
}

type propertyRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Rent         float64  `json:"rent"`
	Location     string   `json:"location"`
	Amenities    []string `json:"amenities"`
	Photos       []string `json:"photos"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	AreaSqft     int      `json:"areaSqft"`
	PropertyType string   `json:"propertyType"`
	IsAvailable  *bool    `json:"isAvailable"`
}

func (req *propertyRequest) toModel() *models.Property {
	return &models.Property{
		Title:        req.Title,
		Description:  req.Description,
		Rent:         req.Rent,
		Location:     req.Location,
		Amenities:    req.Amenities,
		Photos:       req.Photos,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		AreaSqft:     req.AreaSqft,
		PropertyType: req.PropertyType,
	}
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	property := req.toModel()
	if err := s.svc.Property.Create(r.Context(), actorFrom(r), property); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusCreated, "property created", property)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	property := req.toModel()
	property.ID = id
	if req.IsAvailable != nil {
		property.IsAvailable = *req.IsAvailable
	} else {
		property.IsAvailable = true
	}
	if err := s.svc.Property.Update(r.Context(), actorFrom(r), property); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "property updated", property)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Property.Delete(r.Context(), actorFrom(r), id); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "property deleted", nil)
}
