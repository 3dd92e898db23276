package ui

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dataviz/app"
	"dataviz/domain/chart"
	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal/chartspec"
	apperrors "dataviz/internal/errors"
	"dataviz/internal/schema"
)

const uploadField = "dataset"

// datasetView is the JSON shape of a cached dataset
type datasetView struct {
	*dataset.Dataset
	Columns []string `json:"columns"`
}

func newDatasetView(ds *dataset.Dataset) datasetView {
	return datasetView{Dataset: ds, Columns: schema.ListColumns(ds.Table)}
}

// chartResponse is the pipeline outcome plus the first rows of the filtered table
type chartResponse struct {
	*app.Outcome
	Preview []map[string]dataset.Value `json:"preview"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleArchetypes lists the chart archetypes with the roles each one needs
func (s *Server) handleArchetypes(c *gin.Context) {
	type archetypeView struct {
		Name     chart.Archetype `json:"name"`
		Required []chart.Role    `json:"required"`
		Optional []chart.Role    `json:"optional"`
	}
	views := make([]archetypeView, 0, len(chart.Archetypes))
	for _, a := range chart.Archetypes {
		required, optional, err := chartspec.Roles(a)
		if err != nil {
			s.respondError(c, err)
			return
		}
		views = append(views, archetypeView{Name: a, Required: required, Optional: optional})
	}
	c.JSON(http.StatusOK, gin.H{"archetypes": views})
}

func (s *Server) handleListDatasets(c *gin.Context) {
	list, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]datasetView, 0, len(list))
	for _, ds := range list {
		views = append(views, newDatasetView(ds))
	}
	c.JSON(http.StatusOK, gin.H{
		"datasets": views,
		"count":    len(views),
	})
}

// handleUpload loads a CSV or XLSX upload into the session store
func (s *Server) handleUpload(c *gin.Context) {
	limitMB := s.cfg.Server.MaxUploadMB

	header, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(c, apperrors.PayloadTooLarge(limitMB))
			return
		}
		s.respondError(c, apperrors.InvalidInput("missing multipart file field \""+uploadField+"\""))
		return
	}
	if header.Size > s.cfg.Server.MaxUploadBytes() {
		s.respondError(c, apperrors.PayloadTooLarge(limitMB))
		return
	}
	if !s.loader.Supports(header.Filename) {
		s.respondError(c, apperrors.UnsupportedMediaType(strings.ToLower(filepath.Ext(header.Filename))))
		return
	}

	f, err := header.Open()
	if err != nil {
		s.respondError(c, apperrors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.respondError(c, apperrors.Wrap(err, "failed to read upload"))
		return
	}

	table, err := s.loader.Load(header.Filename, bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, core.ErrEmptyUpload) {
			s.respondError(c, err)
			return
		}
		s.respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrapf(err, "could not read %q", header.Filename)))
		return
	}

	ds := dataset.NewDataset(header.Filename, table, core.NewContentHash(data))
	ds.FileSize = header.Size
	ds.MimeType = header.Header.Get("Content-Type")

	stored, err := s.store.Put(c.Request.Context(), ds)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("[Upload] %q -> %s (%d rows)", header.Filename, stored.ID, stored.RecordCount)
	c.JSON(http.StatusCreated, newDatasetView(stored))
}

// handleColumns lists the columns of a dataset with their advisory profiles
func (s *Server) handleColumns(c *gin.Context) {
	ds, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      ds.ID,
		"columns": schema.ListColumns(ds.Table),
		"profile": schema.Profile(ds.Table),
	})
}

// handleChart runs the pipeline over the original upload with the posted selections
func (s *Server) handleChart(c *gin.Context) {
	ds, ok := s.lookup(c)
	if !ok {
		return
	}

	var req app.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput("invalid chart request: "+err.Error()))
		return
	}
	params, err := req.Params()
	if err != nil {
		s.respondError(c, err)
		return
	}

	out, err := s.pipeline.Run(c.Request.Context(), ds.Table, params)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chartResponse{
		Outcome: out,
		Preview: out.Table.Head(s.cfg.Pipeline.PreviewRows),
	})
}

// handleSummary renders a human-readable HTML overview of a dataset
func (s *Server) handleSummary(c *gin.Context) {
	ds, ok := s.lookup(c)
	if !ok {
		return
	}
	page, err := s.renderSummaryPage(ds, schema.Profile(ds.Table))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// lookup resolves the :id parameter, writing the error response on failure
func (s *Server) lookup(c *gin.Context) (*dataset.Dataset, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInput(err.Error()))
		return nil, false
	}
	ds, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return ds, true
}
