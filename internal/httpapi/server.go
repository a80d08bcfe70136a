package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/arjunmehta/mitra/internal/companion"
	"github.com/arjunmehta/mitra/internal/config"
	"github.com/arjunmehta/mitra/internal/llm"
	"github.com/arjunmehta/mitra/internal/observability"
	"github.com/arjunmehta/mitra/internal/speech"
	"github.com/arjunmehta/mitra/internal/turn"
)

// maxUploadBytes bounds one multipart voice upload.
const maxUploadBytes = 15 << 20

// TurnRunner is the voice pipeline as the API sees it.
type TurnRunner interface {
	Run(ctx context.Context, req turn.Request) (turn.Result, error)
}

// VoiceResolver exposes the primary provider's tone/register voice mapping
// for the voices listing endpoint.
type VoiceResolver interface {
	VoiceID(hint speech.VoiceHint) string
}

type Server struct {
	cfg       config.Config
	pipeline  TurnRunner
	completer llm.Completer
	voices    VoiceResolver
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

func New(cfg config.Config, pipeline TurnRunner, completer llm.Completer, voices VoiceResolver, metrics *observability.Metrics, logger zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		completer: completer,
		voices:    voices,
		metrics:   metrics,
		logger:    logger.With().Str("component", "httpapi").Logger(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/voice/turn", s.handleVoiceTurn)
	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/voice/voices", s.handleListVoices)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"talk_mode": s.cfg.TalkMode,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "unavailable", "pipeline not configured")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleVoiceTurn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected multipart form upload")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no_audio", "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "could not read audio upload")
		return
	}
	if len(audio) > maxUploadBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "audio_too_large", "audio upload exceeds the size limit")
		return
	}

	result, err := s.pipeline.Run(r.Context(), turn.Request{
		Audio:      audio,
		Filename:   header.Filename,
		Tone:       r.FormValue("tone"),
		Name:       r.FormValue("name"),
		HistoryRaw: []byte(r.FormValue("history")),
	})
	if err != nil {
		s.respondTurnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// respondTurnError maps pipeline failures onto the error taxonomy:
// client-input, upstream-fatal and internal each get their own status class.
func (s *Server) respondTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, turn.ErrNoAudio):
		respondError(w, http.StatusBadRequest, "no_audio", "audio file is required")
	case errors.Is(err, companion.ErrEmptyTranscript):
		respondError(w, http.StatusUnprocessableEntity, "empty_transcript", "could not hear any words in the recording")
	// A timed-out provider call carries both the stage sentinel and the
	// deadline error; the deadline is the truer cause, so it wins.
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "the voice turn took too long")
	case errors.Is(err, turn.ErrTranscriptionFailed):
		s.logger.Error().Err(err).Msg("transcription provider failure")
		respondError(w, http.StatusBadGateway, "transcription_failed", "could not transcribe the recording")
	case errors.Is(err, turn.ErrCompletionFailed):
		s.logger.Error().Err(err).Msg("completion provider failure")
		respondError(w, http.StatusBadGateway, "completion_failed", "could not generate a reply")
	default:
		s.logger.Error().Err(err).Msg("voice turn failed")
		respondError(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}

type chatRequest struct {
	Message  string `json:"message"`
	Tone     string `json:"tone"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

type chatResponse struct {
	Reply    string             `json:"reply"`
	Tone     companion.Tone     `json:"tone"`
	Language companion.Language `json:"language"`
}

// handleChat is the text-only relay: one prompt, one reply, no audio legs.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected a JSON body")
		return
	}
	message := companion.CollapseWhitespace(req.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message is required")
		return
	}
	message = companion.ClampChars(message, companion.MaxTranscriptChars)

	tone := companion.ResolveTone(req.Tone)
	language := companion.DetectLanguage(message)
	if strings.TrimSpace(req.Language) != "" {
		language = companion.ResolveLanguage(req.Language)
	}

	mode := companion.ResolveTalkMode(s.cfg.TalkMode)
	reply, err := s.completer.Complete(r.Context(), llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: companion.BuildSystemPrompt(tone, language, mode, req.Name)},
			{Role: llm.RoleUser, Content: message},
		},
		Temperature: 0.7,
		MaxTokens:   220,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("chat completion failure")
		respondError(w, http.StatusBadGateway, "completion_failed", "could not generate a reply")
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Reply:    companion.ShapeReply(reply, mode),
		Tone:     tone,
		Language: language,
	})
}

func (s *Server) handleListVoices(w http.ResponseWriter, _ *http.Request) {
	tones := []companion.Tone{companion.ToneWarm, companion.ToneSpiritual, companion.ToneCoach}
	languages := []companion.Language{companion.LanguageEnglish, companion.LanguageHinglish, companion.LanguageHindi}

	type voiceEntry struct {
		Tone     companion.Tone     `json:"tone"`
		Language companion.Language `json:"language"`
		VoiceID  string             `json:"voice_id"`
	}
	var entries []voiceEntry
	for _, tone := range tones {
		for _, language := range languages {
			entries = append(entries, voiceEntry{
				Tone:     tone,
				Language: language,
				VoiceID:  s.voices.VoiceID(speech.VoiceHint{Tone: string(tone), Language: string(language)}),
			})
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"voices": entries})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
