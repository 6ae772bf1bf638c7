package ui

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"godescribe/adapters/excel"
	"godescribe/adapters/render"
	"godescribe/app"
	"godescribe/domain/dataset"
	"godescribe/domain/stats/describe"
	"godescribe/internal/analysis/histogram"
	"godescribe/internal/errors"

	"github.com/gin-gonic/gin"
)

// reportResponse is the JSON body of describe and report lookups
type reportResponse struct {
	ID          string           `json:"id"`
	Fingerprint string           `json:"fingerprint"`
	LabelColumn string           `json:"label_column"`
	Cached      bool             `json:"cached"`
	CreatedAt   time.Time        `json:"created_at"`
	Report      *describe.Report `json:"report"`
}

func newReportResponse(r *app.DescribeResult) reportResponse {
	return reportResponse{
		ID:          r.ID.String(),
		Fingerprint: r.Fingerprint.String(),
		LabelColumn: r.LabelColumn,
		Cached:      r.Cached,
		CreatedAt:   r.CreatedAt,
		Report:      r.Report,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleDescribe computes the report of an uploaded dataset
func (s *Server) handleDescribe(c *gin.Context) {
	format, err := render.ParseFormat(c.DefaultQuery("format", string(render.FormatJSON)))
	if err != nil {
		s.writeError(c, err)
		return
	}

	table, err := s.readUpload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.service.Describe(c.Request.Context(), table, strings.TrimSpace(c.Query("label")))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeReport(c, result, format)
}

func (s *Server) handleGetReport(c *gin.Context) {
	format, err := render.ParseFormat(c.DefaultQuery("format", string(render.FormatJSON)))
	if err != nil {
		s.writeError(c, err)
		return
	}
	result, err := s.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeReport(c, result, format)
}

// handleHistogram bins one feature, or every feature for "all"
func (s *Server) handleHistogram(c *gin.Context) {
	table, err := s.readUpload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	cfg := s.options.Histogram
	if raw := c.Query("bins"); raw != "" {
		bins, convErr := strconv.Atoi(raw)
		if convErr != nil || bins < 1 {
			s.writeError(c, errors.InvalidInput(fmt.Sprintf("bins must be a positive integer, got %q", raw)))
			return
		}
		cfg.Bins = bins
	}
	if group, ok := c.GetQuery("group"); ok {
		cfg.GroupColumn = group
	}
	builder := histogram.NewBuilder(cfg, s.logger)

	feature := strings.TrimSpace(c.PostForm("feature"))
	if feature == "" {
		feature = strings.TrimSpace(c.Query("feature"))
	}

	var histograms []*histogram.Histogram
	switch feature {
	case "":
		s.writeError(c, errors.InvalidInput("feature is required (a column name or \"all\")"))
		return
	case "all":
		histograms, err = builder.All(table)
	default:
		var h *histogram.Histogram
		h, err = builder.Feature(table, feature)
		histograms = []*histogram.Histogram{h}
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"histograms": histograms})
}

// readUpload parses the multipart "file" field into a table
func (s *Server) readUpload(c *gin.Context) (*dataset.Table, error) {
	if c.Request.ContentLength > s.options.MaxUploadBytes {
		return nil, errors.New(errors.CodePayloadTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.options.MaxUploadBytes))
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.CodePayloadTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.options.MaxUploadBytes))
		}
		return nil, errors.InvalidInput("no file uploaded (multipart field \"file\")")
	}
	defer file.Close()

	fileType, err := excel.DetectFileType(header.Filename)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("upload %s (%d bytes)", header.Filename, header.Size)
	return excel.NewStreamReader(fileType, s.options.Reader).ReadTableFrom(file)
}

func (s *Server) writeReport(c *gin.Context, result *app.DescribeResult, format render.Format) {
	switch format {
	case render.FormatJSON:
		c.JSON(http.StatusOK, newReportResponse(result))
	case render.FormatHTML:
		c.Data(http.StatusOK, "text/html; charset=utf-8", render.HTML(result.Report))
	case render.FormatMarkdown:
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", render.Markdown(result.Report))
	default:
		var buf bytes.Buffer
		if err := render.Text(&buf, result.Report); err != nil {
			s.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	}
}

// writeError maps application error codes to HTTP statuses
func (s *Server) writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case code == errors.CodeNotFound:
		status = http.StatusNotFound
	case code == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case code == errors.CodeUnsupportedFile:
		status = http.StatusUnsupportedMediaType
	case code == errors.CodePayloadTooLarge:
		status = http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.Error("request failed: %v", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}
