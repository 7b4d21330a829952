package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	type link struct {
		Icon string `json:"icon"`
		Href string `json:"href"`
	}

	tests := []struct {
		name    string
		status  int
		payload any
		want    string
	}{
		{"struct", http.StatusOK, link{Icon: "vlc", Href: "vlc://http://x/a.mp4"}, `{"icon":"vlc","href":"vlc://http://x/a.mp4"}`},
		{"slice", http.StatusOK, []string{"vlc", "mpv"}, `["vlc","mpv"]`},
		{"map", http.StatusCreated, map[string]bool{"video_auto_next": true}, `{"video_auto_next":true}`},
		{"empty slice", http.StatusOK, []link{}, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteJSON(recorder, tt.status, tt.payload)

			if recorder.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, recorder.Code)
			}
			if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}
			if got := strings.TrimSpace(recorder.Body.String()); got != tt.want {
				t.Errorf("expected body %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	messages := map[int]string{
		http.StatusBadRequest:          "invalid path",
		http.StatusForbidden:           "invalid or expired link",
		http.StatusNotFound:            "video not found",
		http.StatusInternalServerError: `quoted "name" <b>`,
	}

	for status, message := range messages {
		recorder := httptest.NewRecorder()

		WriteError(recorder, status, message)

		if recorder.Code != status {
			t.Errorf("expected status %d, got %d", status, recorder.Code)
		}
		var decoded ErrorBody
		if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response body: %v", err)
		}
		if decoded.Error != message {
			t.Errorf("expected error %q, got %q", message, decoded.Error)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Value bool `json:"value"`
	}
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":true}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &body); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !body.Value {
		t.Error("expected value=true")
	}
}

func TestDecodeJSONRejectsBadBodies(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"value":"yes"}`, `{"other":1}`, strings.Repeat(" ", maxBodyBytes+1) + "{}"} {
		var body struct {
			Value bool `json:"value"`
		}
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(raw))
		if err := DecodeJSON(httptest.NewRecorder(), req, &body); err == nil {
			t.Errorf("expected error for body %q", raw)
		}
	}
}
