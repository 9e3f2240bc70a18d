package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// processedFile is one entry of processed_files.
type processedFile struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Size     int    `json:"size"`
}

// fileError is one entry of errors.
type fileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResponse is returned by POST /upload-documents/.
type UploadResponse struct {
	Message            string          `json:"message"`
	BatchID            string          `json:"batch_id"`
	ProcessedFiles     []processedFile `json:"processed_files"`
	TotalChunks        int             `json:"total_chunks"`
	Errors             []fileError     `json:"errors"`
	TotalDocumentsInDB int             `json:"total_documents_in_db"`

	// Detail is set when the batch stopped early; the files before it are indexed.
	Detail string `json:"detail,omitempty"`
}

// AskResponse is returned by POST /ask/.
type AskResponse struct {
	Question        string             `json:"question"`
	Answer          string             `json:"answer"`
	SourceDocuments []string           `json:"source_documents"`
	Sources         []domain.SearchHit `json:"sources"`
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexHTML)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form with one or more \"files\" parts")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	resp := UploadResponse{
		ProcessedFiles: []processedFile{},
		Errors:         []fileError{},
	}

	inputs := make([]domain.FileInput, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			resp.Errors = append(resp.Errors, fileError{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		inputs = append(inputs, domain.FileInput{Filename: fh.Filename, Content: content})
	}

	status := http.StatusOK
	if len(inputs) > 0 {
		summary, err := s.rag.IngestDocuments(r.Context(), inputs, domain.IngestOptions{})
		if err != nil {
			logger.Error("ingest failed: %v", err)
			if summary == nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			status = http.StatusInternalServerError
			resp.Detail = err.Error()
		}
		resp.addSummary(summary)
	}

	resp.TotalDocumentsInDB = s.rag.DocumentCount()
	resp.Message = fmt.Sprintf("Processed %d files", len(resp.ProcessedFiles))
	writeJSON(w, status, resp)
}

func (resp *UploadResponse) addSummary(summary *domain.IngestSummary) {
	resp.BatchID = summary.BatchID
	resp.TotalChunks = summary.TotalChunksAdded
	for _, f := range summary.Files {
		if f.Failed() {
			resp.Errors = append(resp.Errors, fileError{Filename: f.Filename, Error: f.Error})
			continue
		}
		resp.ProcessedFiles = append(resp.ProcessedFiles, processedFile{
			Filename: f.Filename,
			Chunks:   f.ChunkCount,
			Size:     f.ByteSize,
		})
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	question := r.FormValue("question")
	if strings.TrimSpace(question) == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyQuery.Error()+": please enter a question")
		return
	}

	answer, err := s.rag.AnswerQuestion(r.Context(), question)
	if err != nil {
		logger.Error("answer failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sources := answer.SourceChunks
	if sources == nil {
		sources = []domain.SearchHit{}
	}
	writeJSON(w, http.StatusOK, AskResponse{
		Question:        answer.Question,
		Answer:          answer.AnswerText,
		SourceDocuments: domain.Texts(sources),
		Sources:         sources,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rag.Status(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

const indexHTML = `<!DOCTYPE html>
<html>
  <head>
    <title>docqa: Document QA</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 40px; }
      .endpoint { background: #e8f4f8; padding: 10px; margin: 5px 0; border-radius: 3px; }
    </style>
  </head>
  <body>
    <h1>Document QA</h1>
    <p>The API is running.</p>
    <h2>Endpoints</h2>
    <div class="endpoint"><strong>POST /upload-documents/</strong> upload documents (multipart field "files")</div>
    <div class="endpoint"><strong>POST /ask/</strong> ask a question (form field "question")</div>
    <div class="endpoint"><strong>GET /status/</strong> service status</div>
  </body>
</html>
`
