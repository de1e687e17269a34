package apitest

import (
	"fmt"
	"math"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"campo-listings/internal/models"
	"campo-listings/pkg/auth"

	"github.com/gin-gonic/gin"
)

// insert must be called with s.mu held or before the server starts.
func (s *Server) insert(p models.Property) models.Property {
	if p.ID == "" {
		s.nextID++
		p.ID = fmt.Sprintf("p%d", s.nextID)
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	if _, exists := s.properties[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.properties[p.ID] = p
	return p
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email != AdminEmail || req.Password != AdminPassword {
		abortWithMessage(c, http.StatusUnauthorized, "credenciales inválidas")
		return
	}
	details, err := auth.GenerateJWT(AdminUser.ID, AdminUser.Name, AdminUser.Email, AdminUser.Role, s.secret(), 0)
	if err != nil {
		abortWithMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: details.Token, User: AdminUser})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, AdminUser)
}

func (s *Server) listProperties(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	matched := filterProperties(s.Properties(), c)
	sortProperties(matched, c.Query("sort"))

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, models.PropertyPage{
		Data: matched[start:end],
		Meta: models.PaginationMeta{
			Total:      int64(total),
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func filterProperties(all []models.Property, c *gin.Context) []models.Property {
	q := strings.ToLower(c.Query("q"))
	operation := c.Query("operation")
	regions := c.QueryArray("region")
	types := c.QueryArray("type")
	featured := c.Query("featured")
	minPrice, hasMinPrice := floatQuery(c, "min_price")
	maxPrice, hasMaxPrice := floatQuery(c, "max_price")
	minHa, hasMinHa := floatQuery(c, "min_hectares")
	maxHa, hasMaxHa := floatQuery(c, "max_hectares")

	out := make([]models.Property, 0, len(all))
	for _, p := range all {
		switch {
		case q != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), q):
		case operation != "" && string(p.Operation) != operation:
		case len(regions) > 0 && !contains(regions, p.Region):
		case len(types) > 0 && !contains(types, p.PropertyType):
		case featured != "" && strconv.FormatBool(p.Featured) != featured:
		case hasMinPrice && p.Price < minPrice:
		case hasMaxPrice && p.Price > maxPrice:
		case hasMinHa && p.Hectares < minHa:
		case hasMaxHa && p.Hectares > maxHa:
		default:
			out = append(out, p)
		}
	}
	return out
}

func sortProperties(props []models.Property, key string) {
	desc := strings.HasPrefix(key, "-")
	var less func(a, b models.Property) bool
	switch strings.TrimPrefix(key, "-") {
	case "price":
		less = func(a, b models.Property) bool { return a.Price < b.Price }
	case "hectares":
		less = func(a, b models.Property) bool { return a.Hectares < b.Hectares }
	default:
		return
	}
	sort.SliceStable(props, func(i, j int) bool {
		if desc {
			return less(props[j], props[i])
		}
		return less(props[i], props[j])
	})
}

func floatQuery(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	return v, err == nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func (s *Server) getProperty(c *gin.Context) {
	s.mu.Lock()
	p, ok := s.properties[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.String(http.StatusNotFound, "property not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProperty(c *gin.Context) {
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid property payload")
		return
	}
	if p.Price <= 0 {
		abortWithMessage(c, http.StatusUnprocessableEntity, "el precio debe ser mayor que cero")
		return
	}
	now := time.Now().UTC()
	p.ID = ""
	p.CreatedAt, p.UpdatedAt = &now, &now

	s.mu.Lock()
	created := s.insert(p)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateProperty(c *gin.Context) {
	id := c.Param("id")
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid property payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.properties[id]
	if !ok {
		abortWithMessage(c, http.StatusNotFound, "property not found")
		return
	}
	now := time.Now().UTC()
	p.ID = id
	p.CreatedAt, p.UpdatedAt = existing.CreatedAt, &now
	if len(p.Images) == 0 {
		p.Images = existing.Images
	}
	c.JSON(http.StatusOK, s.insert(p))
}

func (s *Server) deleteProperty(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		abortWithMessage(c, http.StatusNotFound, "property not found")
		return
	}
	delete(s.properties, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadImages(c *gin.Context) {
	id := c.Param("id")
	form, err := c.MultipartForm()
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "multipart form required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		abortWithMessage(c, http.StatusBadRequest, "no images uploaded")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		abortWithMessage(c, http.StatusNotFound, "property not found")
		return
	}
	for _, fh := range files {
		p.Images = append(p.Images, "https://cdn.campos.test/"+id+"/"+path.Base(fh.Filename))
	}
	c.JSON(http.StatusOK, s.insert(p))
}

func (s *Server) submitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid contact payload")
		return
	}
	s.mu.Lock()
	s.contacts = append(s.contacts, req)
	id := fmt.Sprintf("c%d", len(s.contacts))
	s.mu.Unlock()
	c.JSON(http.StatusCreated, models.Ack{ID: id, Message: "Gracias, te contactaremos pronto"})
}

func (s *Server) submitListing(c *gin.Context) {
	var req models.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid listing payload")
		return
	}
	s.mu.Lock()
	s.listings = append(s.listings, req)
	id := fmt.Sprintf("l%d", len(s.listings))
	s.mu.Unlock()
	c.JSON(http.StatusCreated, models.Ack{ID: id, Message: "Solicitud recibida"})
}

func (s *Server) stats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.DashboardStats{
		TotalProperties: int64(len(s.properties)),
		ByStatus:        make(map[string]int64),
		PendingContacts: int64(len(s.contacts)),
		PendingListings: int64(len(s.listings)),
	}
	for _, p := range s.properties {
		if p.Featured {
			stats.FeaturedProperties++
		}
		stats.ByStatus[string(p.Status)]++
	}
	c.JSON(http.StatusOK, stats)
}
