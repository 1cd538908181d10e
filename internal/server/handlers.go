package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ivstih/interviewd/internal/interview"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TurnRequest is the body of POST /api/interview/turn.
type TurnRequest struct {
	SessionID    string `json:"sessionId"`
	LastQuestion string `json:"lastQuestion"`
	LastAnswer   string `json:"lastAnswer"`
}

// StartRequest is the body of POST /api/interview/start.
type StartRequest struct {
	SessionID string `json:"sessionId"`
}

// CompleteRequest is the body of POST /api/interview/complete. History is an
// optional client-retained transcript used when the server recorded nothing.
type CompleteRequest struct {
	SessionID string           `json:"sessionId"`
	History   []interview.Turn `json:"history,omitempty"`
}

func handleSchedule(scheduler *interview.Scheduler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cv, err := readUpload(c, "cv")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		jd, err := readUpload(c, "jd")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		req := interview.ScheduleRequest{
			CandidateEmail: c.PostForm("candidateEmail"),
			HREmail:        c.PostForm("hrEmail"),
			InterviewDate:  c.PostForm("interviewDate"),
			InterviewTime:  c.PostForm("interviewTime"),
			CV:             cv,
			JobDescription: jd,
		}

		result, err := scheduler.Schedule(c.Request.Context(), req)
		if err != nil {
			abortWithError(c, logger, "schedule", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"sessionId":     result.SessionID,
			"interviewLink": result.InterviewLink,
			"hrPortalLink":  result.HRPortalLink,
			"interviewPlan": result,
		})
	}
}

func handlePlan(store interview.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		session, err := store.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview plan not found."})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func handleStart(controller *interview.Controller, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		question, err := controller.Start(c.Request.Context(), req.SessionID)
		if err != nil {
			abortWithError(c, logger, "start", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"question": question})
	}
}

func handleTurn(controller *interview.Controller, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TurnRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		step, err := controller.AdvanceTurn(c.Request.Context(), req.SessionID, req.LastQuestion, req.LastAnswer)
		if err != nil {
			abortWithError(c, logger, "turn", err)
			return
		}

		c.JSON(http.StatusOK, step)
	}
}

func handleComplete(completer *interview.Completer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompleteRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := completer.Complete(c.Request.Context(), req.SessionID, req.History); err != nil {
			abortWithError(c, logger, "complete", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "reportReady": true})
	}
}

func handleReportStatus(store interview.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.GetByToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if !session.Completed() {
			c.JSON(http.StatusAccepted, gin.H{"ready": false})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ready": true, "generatedAt": session.Report.GeneratedAt})
	}
}

func handleReportPDF(store interview.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.GetByToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if !session.Completed() || len(session.Report.PDF) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not ready"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "Interview_Report_"+session.ID+".pdf"))
		c.Data(http.StatusOK, "application/pdf", session.Report.PDF)
	}
}

// readUpload pulls one uploaded file from the multipart form.
func readUpload(c *gin.Context, field string) (interview.Document, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return interview.Document{}, fmt.Errorf("missing %s file", field)
	}

	file, err := header.Open()
	if err != nil {
		return interview.Document{}, fmt.Errorf("open %s file: %w", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return interview.Document{}, fmt.Errorf("read %s file: %w", field, err)
	}

	return interview.Document{Name: header.Filename, Data: data}, nil
}

// abortWithError maps domain errors onto HTTP statuses: caller mistakes are
// 400-class, everything else is a server failure.
func abortWithError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, interview.ErrInvalidRequest),
		errors.Is(err, interview.ErrSessionNotFound),
		errors.Is(err, interview.ErrInterviewCompleted),
		errors.Is(err, interview.ErrNoTranscript):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
