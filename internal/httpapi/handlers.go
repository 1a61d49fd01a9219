package httpapi

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/capture"
	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/llm"
	sess "github.com/abhisek/calcitb/internal/session"
	"github.com/abhisek/calcitb/internal/ui/markdown"
)

// ClassifyRequest carries the two readings as typed. Score, when set,
// skips the computation and classifies the value directly, unrounded.
type ClassifyRequest struct {
	ArmSystolic   string   `json:"armSystolic"`
	AnkleSystolic string   `json:"ankleSystolic"`
	Score         *float64 `json:"score"`
}

// ClassifyResponse is a classified result plus the band label.
type ClassifyResponse struct {
	itb.Result
	Label    string `json:"label,omitempty"`
	Fallback bool   `json:"fallback"`
}

// ExplainRequest asks for an explanation of a score.
type ExplainRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Age      string   `json:"age"`
	Symptoms string   `json:"symptoms"`
}

// ExplainResponse holds the explanation as markdown and as HTML.
type ExplainResponse struct {
	Score    float64 `json:"score"`
	Markdown string  `json:"markdown"`
	HTML     string  `json:"html"`
	Fallback bool    `json:"fallback"`

	// Retryable is set on a fallback when asking again may succeed.
	Retryable bool `json:"retryable,omitempty"`
}

// ScanRequest is the JSON form of /scan. Image is base64 or a data URL.
type ScanRequest struct {
	Image string `json:"image" binding:"required"`
}

// ScanResponse reports the extracted readings. Result is set when both
// readings were found and produce a score.
type ScanResponse struct {
	ArmSystolic   *int              `json:"armSystolic"`
	AnkleSystolic *int              `json:"ankleSystolic"`
	Result        *ClassifyResponse `json:"result,omitempty"`
}

// BandResponse is one row of the reference table.
type BandResponse struct {
	Range          string       `json:"range"`
	Min            float64      `json:"min"`
	Max            float64      `json:"max"`
	Category       itb.Category `json:"category"`
	Label          string       `json:"label"`
	Message        string       `json:"message"`
	Recommendation string       `json:"recommendation"`
	Style          itb.Style    `json:"style"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"ai":     s.advisor != nil,
		"model":  s.modelLabel,
	})
}

func (s *Server) Bands(c *gin.Context) {
	out := make([]BandResponse, 0, len(itb.Bands))
	for _, b := range itb.Bands {
		out = append(out, BandResponse{
			Range:          b.RangeLabel(),
			Min:            b.Min,
			Max:            b.Max,
			Category:       b.Category,
			Label:          b.Label,
			Message:        b.Message,
			Recommendation: b.Recommendation,
			Style:          b.Style,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}

	// A supplied score is classified as given. Scores between bands get the
	// fallback result.
	if req.Score != nil {
		c.JSON(http.StatusOK, classified(itb.Classify(*req.Score)))
		return
	}

	calc := sess.New(false)
	if !calc.SetArm(req.ArmSystolic) || !calc.SetAnkle(req.AnkleSystolic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "readings must contain digits only"})
		return
	}
	if !calc.Compute() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "both readings are required and must be non-zero"})
		return
	}
	c.JSON(http.StatusOK, classified(*calc.Snapshot().Result))
}

func (s *Server) Explain(c *gin.Context) {
	if s.advisor == nil {
		aiDisabled(c)
		return
	}

	var req ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}

	score := itb.RoundScore(*req.Score)
	text, err := s.advisor.Explain(c.Request.Context(), advisor.ExplainInput{
		Score:    score,
		Age:      req.Age,
		Symptoms: req.Symptoms,
	})
	fallback := err != nil || text == ""
	if fallback {
		s.logger.Warn("explain_failed", "request_id", c.GetString("request_id"), "error", errString(err))
		text = sess.ExplainFallback
		setRetryAfter(c, err)
	}

	c.JSON(http.StatusOK, ExplainResponse{
		Score:     score,
		Markdown:  text,
		HTML:      markdown.ToHTML(text),
		Fallback:  fallback,
		Retryable: llm.Transient(err),
	})
}

func (s *Server) Scan(c *gin.Context) {
	if s.advisor == nil {
		aiDisabled(c)
		return
	}

	image, err := s.readImage(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, capture.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": "invalid image", "details": err.Error()})
		return
	}

	r, err := s.advisor.ExtractReadings(c.Request.Context(), image)
	if err != nil {
		s.logger.Warn("scan_failed", "request_id", c.GetString("request_id"), "error", err.Error())
		setRetryAfter(c, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": sess.ScanFallback, "retryable": llm.Transient(err)})
		return
	}

	resp := ScanResponse{ArmSystolic: r.ArmSystolic, AnkleSystolic: r.AnkleSystolic}
	if r.ArmSystolic != nil && r.AnkleSystolic != nil {
		score, ok := itb.ComputeScore(strconv.Itoa(*r.ArmSystolic), strconv.Itoa(*r.AnkleSystolic))
		if ok {
			out := classified(itb.Classify(score))
			resp.Result = &out
		}
	}
	c.JSON(http.StatusOK, resp)
}

// maxScanBody caps a /scan request body: a base64 image of MaxImageBytes
// plus room for the JSON or multipart envelope.
const maxScanBody = capture.MaxImageBytes*4/3 + 64<<10

// readImage accepts either a multipart "image" file or a JSON body. The
// body is cut off at maxScanBody before anything is buffered.
func (s *Server) readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxScanBody)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, bodyError(err)
		}
		if fh.Size > capture.MaxImageBytes {
			return nil, capture.ErrTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		return capture.Grab(c.Request.Context(), capture.FromReader(f))
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, bodyError(err)
	}
	b, err := advisor.DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}
	if len(b) > capture.MaxImageBytes {
		return nil, capture.ErrTooLarge
	}
	return b, nil
}

// bodyError reports a body cut off by MaxBytesReader as capture.ErrTooLarge.
func bodyError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return capture.ErrTooLarge
	}
	return err
}

func classified(r itb.Result) ClassifyResponse {
	out := ClassifyResponse{Result: r, Fallback: itb.IsFallback(r)}
	if !out.Fallback {
		if b, ok := itb.BandFor(r.Category); ok {
			out.Label = b.Label
		}
	}
	return out
}

func badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": err.Error()})
}

func aiDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no LLM provider configured"})
}

// setRetryAfter forwards a provider rate-limit hint to the client.
func setRetryAfter(c *gin.Context, err error) {
	if d := llm.RetryAfter(err); d > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
	}
}

func errString(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}
