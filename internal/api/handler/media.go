package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parenthaven/backend/internal/api/response"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/media"
	"github.com/rs/zerolog/log"
)

// MediaHandler handles document upload and voice endpoints. Uploaded
// documents are reduced to text and answered through the regular pipeline.
// The transcriber and synthesizer may be nil when no speech backend is
// configured; the voice endpoints then report 501.
type MediaHandler struct {
	extractors   *media.ExtractorRegistry
	pipeline     *chat.Pipeline
	sessions     domain.SessionStore
	transcriber  media.Transcriber
	synthesizer  media.Synthesizer
	uploadDir    string
	tempAudioDir string
	maxUploadMB  int64
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(
	extractors *media.ExtractorRegistry,
	pipeline *chat.Pipeline,
	sessions domain.SessionStore,
	transcriber media.Transcriber,
	synthesizer media.Synthesizer,
	uploadDir, tempAudioDir string,
	maxUploadMB int64,
) *MediaHandler {
	// Ensure working directories exist
	os.MkdirAll(uploadDir, 0755)
	os.MkdirAll(tempAudioDir, 0755)
	return &MediaHandler{
		extractors:   extractors,
		pipeline:     pipeline,
		sessions:     sessions,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		uploadDir:    uploadDir,
		tempAudioDir: tempAudioDir,
		maxUploadMB:  maxUploadMB,
	}
}

// Upload answers a question carried by an uploaded document: the file's text
// is extracted and asked through the same pipeline as a typed query
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(h.maxUploadMB << 20)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	}
	if !h.extractors.Supported(contentType) {
		response.BadRequest(w, fmt.Sprintf("unsupported content type: %s", contentType))
		return
	}

	// Keep a copy of the original upload
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	destPath := filepath.Join(h.uploadDir, uniqueName)
	dst, err := os.Create(destPath)
	if err != nil {
		response.InternalError(w, "failed to save file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(destPath)
		response.InternalError(w, "failed to save file")
		return
	}
	dst.Close()

	saved, err := os.Open(destPath)
	if err != nil {
		response.InternalError(w, "failed to read saved file")
		return
	}
	defer saved.Close()

	query, err := h.extractors.Extract(r.Context(), contentType, saved)
	if err != nil {
		log.Error().Err(err).Str("file", header.Filename).Msg("Extraction failed")
		response.InternalError(w, "failed to extract text")
		return
	}
	if strings.TrimSpace(query) == "" {
		response.BadRequest(w, "document contains no text")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	h.sessions.GetOrCreate(sessionID)

	result, err := h.pipeline.Ask(r.Context(), sessionID, query)
	if err != nil {
		response.InternalError(w, "knowledge base unavailable")
		return
	}

	response.OK(w, map[string]any{
		"original_name":  header.Filename,
		"extracted_text": query,
		"reply":          result.Reply,
		"session_id":     result.SessionID,
		"from_db":        result.FromDB,
	})
}

// VoiceQuery transcribes an uploaded recording, answers it through the
// regular pipeline and, when a synthesizer is configured, renders the reply
// as a clip served by VoiceReply
func (h *MediaHandler) VoiceQuery(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		response.NotImplemented(w, "no speech-to-text backend configured")
		return
	}

	r.ParseMultipartForm(h.maxUploadMB << 20)

	file, header, err := r.FormFile("audio")
	if err != nil {
		response.BadRequest(w, "no audio uploaded")
		return
	}
	defer file.Close()

	query, err := h.transcriber.Transcribe(r.Context(), file, header.Header.Get("Content-Type"))
	if err != nil {
		log.Error().Err(err).Msg("Transcription failed")
		response.InternalError(w, "failed to transcribe audio")
		return
	}
	if strings.TrimSpace(query) == "" {
		response.BadRequest(w, "could not recognize any speech")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	h.sessions.GetOrCreate(sessionID)

	result, err := h.pipeline.Ask(r.Context(), sessionID, query)
	if err != nil {
		response.InternalError(w, "knowledge base unavailable")
		return
	}

	body := map[string]any{
		"query":      query,
		"reply":      result.Reply,
		"session_id": result.SessionID,
		"from_db":    result.FromDB,
	}

	if h.synthesizer != nil {
		if clip, err := h.renderClip(r, result.Reply); err != nil {
			log.Error().Err(err).Msg("Synthesis failed")
		} else {
			body["voice_reply"] = "/api/v1/voice-reply/" + clip
		}
	}

	response.OK(w, body)
}

// renderClip synthesizes the reply into the temp audio dir and returns the
// clip's filename
func (h *MediaHandler) renderClip(r *http.Request, text string) (string, error) {
	audio, contentType, err := h.synthesizer.Synthesize(r.Context(), text)
	if err != nil {
		return "", err
	}

	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		ext = exts[0]
	}
	name := uuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(h.tempAudioDir, name), audio, 0644); err != nil {
		return "", err
	}
	return name, nil
}

// VoiceReply serves a previously synthesized clip
func (h *MediaHandler) VoiceReply(w http.ResponseWriter, r *http.Request) {
	if h.synthesizer == nil {
		response.NotImplemented(w, "no text-to-speech backend configured")
		return
	}

	name := filepath.Base(chi.URLParam(r, "filename"))
	if name == "" || name == "." || name == ".." {
		response.BadRequest(w, "invalid filename")
		return
	}

	path := filepath.Join(h.tempAudioDir, name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(w, "clip not found")
		return
	}

	http.ServeFile(w, r, path)
}
