package server

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praachilabs/studypack/pkg/common/errors"
	"github.com/praachilabs/studypack/pkg/docpipe"
)

// maxUploadBytes caps one multipart upload batch.
const maxUploadBytes = 128 << 20

// handleGenerate accepts a multipart upload of course documents plus the
// subject name and optional exam instructions, and returns the four
// segmented sections.
func (s *Server) handleGenerate(c *gin.Context) {
	reqID := uuid.NewString()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid multipart form", err))
		return
	}

	subject := c.PostForm("subject")
	examInstructions := c.PostForm("exam_instructions")

	var docs []docpipe.Document
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			handleError(c, errors.NewAppError(http.StatusBadRequest, "Unreadable upload", err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			handleError(c, errors.NewAppError(http.StatusBadRequest, "Unreadable upload", err))
			return
		}
		docs = append(docs, docpipe.Document{Name: fh.Filename, Data: data})
	}

	log.Printf("generate request %s: %d documents, subject %q", reqID, len(docs), subject)

	pack, err := s.svc.Generate(c.Request.Context(), docs, subject, examInstructions)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pack)
}

// handleGrade submits learner answers against a previously generated exam
// and returns the feedback text unmodified.
func (s *Server) handleGrade(c *gin.Context) {
	var req struct {
		Exam    string `json:"exam"`
		Answers string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	feedback, err := s.svc.Grade(c.Request.Context(), req.Exam, req.Answers)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// handleError helper
func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
