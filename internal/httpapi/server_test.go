package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arjunmehta/mitra/internal/companion"
	"github.com/arjunmehta/mitra/internal/config"
	"github.com/arjunmehta/mitra/internal/llm"
	"github.com/arjunmehta/mitra/internal/observability"
	"github.com/arjunmehta/mitra/internal/speech"
	"github.com/arjunmehta/mitra/internal/turn"
)

var metricsSeq atomic.Int64

func newTestServer(pipeline TurnRunner, completer llm.Completer) *Server {
	cfg := config.Config{TalkMode: "long"}
	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", metricsSeq.Add(1)))
	return New(cfg, pipeline, completer, stubVoices{}, metrics, zerolog.Nop())
}

type stubPipeline struct {
	result  turn.Result
	err     error
	lastReq turn.Request
}

func (s *stubPipeline) Run(_ context.Context, req turn.Request) (turn.Result, error) {
	s.lastReq = req
	return s.result, s.err
}

type stubCompleter struct {
	reply   string
	err     error
	lastReq llm.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.lastReq = req
	return s.reply, s.err
}

type stubVoices struct{}

func (stubVoices) VoiceID(hint speech.VoiceHint) string {
	if hint.HindiRegister() {
		return hint.Tone + "-hi"
	}
	return hint.Tone + "-en"
}

func multipartTurnRequest(t *testing.T, audio []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if audio != nil {
		part, err := writer.CreateFormFile("audio", "utterance.webm")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField(%s): %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestVoiceTurnHappyPath(t *testing.T) {
	pipeline := &stubPipeline{result: turn.Result{
		TurnID:         "t-1",
		Transcript:     "kya haal hai",
		Reply:          "sab badhiya!",
		Audio:          []byte("mp3"),
		AudioMime:      "audio/mpeg",
		SpeechProvider: "elevenlabs",
		Language:       companion.LanguageHinglish,
		Tone:           companion.ToneWarm,
		Mode:           companion.TalkModeLong,
	}}
	server := newTestServer(pipeline, &stubCompleter{})

	req := multipartTurnRequest(t, []byte("audio-bytes"), map[string]string{
		"tone":    "WARM",
		"name":    "Asha",
		"history": `[{"user":"hi","assistant":"hello"}]`,
	})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got turn.Result
	decodeBody(t, rec, &got)
	if got.Reply != "sab badhiya!" || got.Transcript != "kya haal hai" {
		t.Fatalf("response = %+v", got)
	}
	if got.SpeechProvider != "elevenlabs" || string(got.Audio) != "mp3" {
		t.Fatalf("speech fields = %q/%q", got.SpeechProvider, got.Audio)
	}

	if string(pipeline.lastReq.Audio) != "audio-bytes" {
		t.Fatalf("pipeline audio = %q", pipeline.lastReq.Audio)
	}
	if pipeline.lastReq.Tone != "WARM" || pipeline.lastReq.Name != "Asha" {
		t.Fatalf("pipeline request = %+v", pipeline.lastReq)
	}
	if !strings.Contains(string(pipeline.lastReq.HistoryRaw), "hello") {
		t.Fatalf("history not forwarded: %q", pipeline.lastReq.HistoryRaw)
	}
}

func TestVoiceTurnMissingAudio(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{})

	req := multipartTurnRequest(t, nil, map[string]string{"tone": "warm"})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var got errorResponse
	decodeBody(t, rec, &got)
	if got.Code != "no_audio" {
		t.Fatalf("code = %q, want no_audio", got.Code)
	}
}

func TestVoiceTurnErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty transcript", companion.ErrEmptyTranscript, http.StatusUnprocessableEntity, "empty_transcript"},
		{"transcription failed", fmt.Errorf("%w: upstream 500", turn.ErrTranscriptionFailed), http.StatusBadGateway, "transcription_failed"},
		{"completion failed", fmt.Errorf("%w: upstream 503", turn.ErrCompletionFailed), http.StatusBadGateway, "completion_failed"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"deadline during transcription", fmt.Errorf("%w: %w", turn.ErrTranscriptionFailed, context.DeadlineExceeded), http.StatusGatewayTimeout, "timeout"},
		{"deadline during completion", fmt.Errorf("%w: %w", turn.ErrCompletionFailed, context.DeadlineExceeded), http.StatusGatewayTimeout, "timeout"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&stubPipeline{err: tc.err}, &stubCompleter{})

			req := multipartTurnRequest(t, []byte("a"), nil)
			rec := httptest.NewRecorder()
			server.Router().ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var got errorResponse
			decodeBody(t, rec, &got)
			if got.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", got.Code, tc.wantCode)
			}
		})
	}
}

func TestVoiceTurnOversizedAudio(t *testing.T) {
	pipeline := &stubPipeline{}
	server := newTestServer(pipeline, &stubCompleter{})

	req := multipartTurnRequest(t, bytes.Repeat([]byte("a"), maxUploadBytes+1), nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	var got errorResponse
	decodeBody(t, rec, &got)
	if got.Code != "audio_too_large" {
		t.Fatalf("code = %q, want audio_too_large", got.Code)
	}
	if len(pipeline.lastReq.Audio) != 0 {
		t.Fatalf("pipeline invoked with oversized upload")
	}
}

func TestVoiceTurnDegradedSpeech(t *testing.T) {
	pipeline := &stubPipeline{result: turn.Result{
		TurnID:      "t-2",
		Transcript:  "hello",
		Reply:       "hi there",
		SpeechError: "speech_unavailable",
		Language:    companion.LanguageEnglish,
		Tone:        companion.ToneWarm,
		Mode:        companion.TalkModeLong,
	}}
	server := newTestServer(pipeline, &stubCompleter{})

	req := multipartTurnRequest(t, []byte("a"), nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", rec.Code)
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if got["speech_error"] != "speech_unavailable" {
		t.Fatalf("speech_error = %v", got["speech_error"])
	}
	if _, present := got["audio"]; present {
		t.Fatalf("audio field present on degraded turn")
	}
	if got["reply"] != "hi there" {
		t.Fatalf("reply = %v", got["reply"])
	}
}

func TestChatHappyPath(t *testing.T) {
	completer := &stubCompleter{reply: "theek hoon, tum batao!"}
	server := newTestServer(&stubPipeline{}, completer)

	body := strings.NewReader(`{"message":"kya haal hai yaar","tone":"coach","name":"Ravi"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got chatResponse
	decodeBody(t, rec, &got)
	if got.Reply != "theek hoon, tum batao!" {
		t.Fatalf("reply = %q", got.Reply)
	}
	if got.Tone != companion.ToneCoach {
		t.Fatalf("tone = %q", got.Tone)
	}
	if got.Language != companion.LanguageHinglish {
		t.Fatalf("language = %q, want detected hinglish", got.Language)
	}

	if len(completer.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want system+user", len(completer.lastReq.Messages))
	}
	if completer.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Fatalf("first role = %q", completer.lastReq.Messages[0].Role)
	}
	if !strings.Contains(completer.lastReq.Messages[0].Content, "Ravi") {
		t.Fatalf("system prompt missing name: %q", completer.lastReq.Messages[0].Content)
	}
}

func TestChatLanguageOverride(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{reply: "ok"})

	body := strings.NewReader(`{"message":"kya haal hai yaar","language":"english"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got chatResponse
	decodeBody(t, rec, &got)
	if got.Language != companion.LanguageEnglish {
		t.Fatalf("language = %q, want explicit english", got.Language)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{})

	body := strings.NewReader(`{"message":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var got errorResponse
	decodeBody(t, rec, &got)
	if got.Code != "empty_message" {
		t.Fatalf("code = %q", got.Code)
	}
}

func TestChatCompletionFailure(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{err: errors.New("upstream down")})

	body := strings.NewReader(`{"message":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestListVoices(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/v1/voice/voices", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Voices []struct {
			Tone     string `json:"tone"`
			Language string `json:"language"`
			VoiceID  string `json:"voice_id"`
		} `json:"voices"`
	}
	decodeBody(t, rec, &got)
	if len(got.Voices) != 9 {
		t.Fatalf("len(voices) = %d, want 3 tones x 3 languages", len(got.Voices))
	}
	for _, v := range got.Voices {
		wantSuffix := "-en"
		if v.Language == "hindi" || v.Language == "hinglish" {
			wantSuffix = "-hi"
		}
		if v.VoiceID != v.Tone+wantSuffix {
			t.Fatalf("voice %s/%s resolved to %q", v.Tone, v.Language, v.VoiceID)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(&stubPipeline{}, &stubCompleter{})

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
