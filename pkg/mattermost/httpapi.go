package mattermost

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/bus"
	"github.com/tinyland-inc/boardroom/pkg/config"
	"github.com/tinyland-inc/boardroom/pkg/dispatch"
)

// HTTPHandler serves the Mattermost callback endpoints: outgoing
// webhooks, slash commands, and a health probe. Unlike the WebSocket
// stream, these requests are handled synchronously because the platform
// expects the response body to carry the reply.
type HTTPHandler struct {
	cfg        config.MattermostConfig
	dispatcher *dispatch.Dispatcher
	log        zerolog.Logger
}

func NewHTTPHandler(cfg config.MattermostConfig, dispatcher *dispatch.Dispatcher, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "mattermost_http").Logger(),
	}
}

// Register mounts the endpoints on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /mattermost/webhook", h.handleWebhook)
	mux.HandleFunc("POST /mattermost/command", h.handleCommand)
	mux.HandleFunc("GET /mattermost/health", h.handleHealth)
}

// handleWebhook serves outgoing-webhook callbacks. Mattermost sends
// these either JSON- or form-encoded depending on webhook settings, so
// both are accepted.
func (h *HTTPHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeWebhookPayload(r)
	if err != nil {
		h.log.Warn().Err(err).Msg("Rejecting unreadable webhook payload")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if h.cfg.WebhookToken != "" && !ValidateToken(payload.Token, h.cfg.WebhookToken) {
		h.log.Warn().Str("channel_id", payload.ChannelID).Msg("Webhook token mismatch")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		h.respond(w, WebhookResponse{
			Text:         "No message provided",
			ResponseType: ResponseTypeInChannel,
			Username:     h.dispatcher.EntityName(),
		})
		return
	}

	// The trigger word is addressing, not content; drop its first
	// occurrence before dispatch.
	if payload.TriggerWord != "" {
		text = strings.TrimSpace(strings.Replace(text, payload.TriggerWord, "", 1))
	}
	if text == "" {
		h.respond(w, WebhookResponse{
			Text:         "Hello! How can I help you?",
			ResponseType: ResponseTypeInChannel,
			Username:     h.dispatcher.EntityName(),
		})
		return
	}

	key := SessionKey(bus.SourceWebhook, payload.ChannelID, payload.PostID)
	h.log.Info().Str("session_key", key).Str("user_id", payload.UserID).Msg("Handling webhook message")

	reply, ok, err := h.dispatcher.Dispatch(r.Context(), text, key)
	if err != nil {
		// Error text is for the invoker only, not the whole channel.
		h.respond(w, WebhookResponse{
			Text:         reply,
			ResponseType: ResponseTypeEphemeral,
		})
		return
	}
	if !ok {
		reply = "I couldn't generate a response."
	}
	h.respond(w, WebhookResponse{
		Text:         reply,
		ResponseType: ResponseTypeInChannel,
		Username:     h.dispatcher.EntityName(),
	})
}

// handleCommand serves slash-command callbacks, which are always
// form-encoded. Sessions here are scoped per user rather than per
// thread, since a slash command has no thread of its own.
func (h *HTTPHandler) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	payload := SlashCommandPayload{
		Token:       r.PostFormValue("token"),
		TeamID:      r.PostFormValue("team_id"),
		ChannelID:   r.PostFormValue("channel_id"),
		ChannelName: r.PostFormValue("channel_name"),
		UserID:      r.PostFormValue("user_id"),
		UserName:    r.PostFormValue("user_name"),
		Command:     r.PostFormValue("command"),
		Text:        r.PostFormValue("text"),
		ResponseURL: r.PostFormValue("response_url"),
		TriggerID:   r.PostFormValue("trigger_id"),
	}

	if h.cfg.WebhookToken != "" && !ValidateToken(payload.Token, h.cfg.WebhookToken) {
		h.log.Warn().Str("channel_id", payload.ChannelID).Msg("Slash command token mismatch")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		h.respond(w, WebhookResponse{
			Text:         "Usage: " + payload.Command + " <your question>",
			ResponseType: ResponseTypeEphemeral,
		})
		return
	}

	key := SessionKey(bus.SourceCommand, payload.ChannelID, payload.UserID)
	h.log.Info().Str("session_key", key).Str("command", payload.Command).Msg("Handling slash command")

	reply, ok, err := h.dispatcher.Dispatch(r.Context(), text, key)
	if err != nil {
		h.respond(w, WebhookResponse{
			Text:         reply,
			ResponseType: ResponseTypeEphemeral,
		})
		return
	}
	if !ok {
		reply = "I couldn't generate a response."
	}
	h.respond(w, WebhookResponse{
		Text:         reply,
		ResponseType: ResponseTypeInChannel,
		Username:     h.dispatcher.EntityName(),
	})
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"interface": "mattermost",
		"entity":    h.dispatcher.EntityName(),
	})
}

func (h *HTTPHandler) respond(w http.ResponseWriter, resp WebhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error().Err(err).Msg("Failed to write webhook response")
	}
}

func decodeWebhookPayload(r *http.Request) (*OutgoingWebhookPayload, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var payload OutgoingWebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return &payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &OutgoingWebhookPayload{
		Token:       r.PostFormValue("token"),
		TeamID:      r.PostFormValue("team_id"),
		ChannelID:   r.PostFormValue("channel_id"),
		ChannelName: r.PostFormValue("channel_name"),
		UserID:      r.PostFormValue("user_id"),
		UserName:    r.PostFormValue("user_name"),
		PostID:      r.PostFormValue("post_id"),
		Text:        r.PostFormValue("text"),
		TriggerWord: r.PostFormValue("trigger_word"),
	}, nil
}
