package httpapi

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/mapty/internal/domain"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event received")
		return Event{}
	}
}

func TestHub_FanOut(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelB()

	h.ShowForm()

	assert.Equal(t, EventFormShown, receive(t, a).Type)
	assert.Equal(t, EventFormShown, receive(t, b).Type)

	cancelA()
	cancelA()
	assert.Equal(t, 1, h.Subscribers())

	_, open := <-a
	assert.False(t, open)
}

func TestHub_DropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		h.HideForm()
	}
	assert.Len(t, ch, cap(ch))
}

func TestHub_Payloads(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	w := domain.NewCycling(domain.Coords{Lat: 1, Lng: 2}, 30, 60, 150)
	w.Describe()

	h.RenderMarker(*w)
	marker := receive(t, ch).Payload.(MarkerPayload)
	assert.Equal(t, w.ID, marker.ID)
	assert.Equal(t, "cycling-popup", marker.Popup.ClassName)
	assert.Equal(t, 250, marker.Popup.MaxWidth)
	assert.False(t, marker.Popup.AutoClose)

	h.RenderWorkout(*w)
	item := receive(t, ch).Payload.(WorkoutPayload)
	assert.Equal(t, "30.0", item.Metric)
	assert.Equal(t, "km/h", item.Unit)

	h.ToggleFields(domain.KindCycling)
	fields := receive(t, ch).Payload.(FieldsPayload)
	assert.False(t, fields.CadenceVisible)
	assert.True(t, fields.ElevationVisible)

	h.PanTo(w.Coords, 13)
	pan := receive(t, ch).Payload.(PanPayload)
	assert.Equal(t, w.Coords, pan.Center)
	assert.True(t, pan.Animate)
}

func TestStreamEvents(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(StreamEvents(func(*http.Request) (*Hub, error) { return h, nil }))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	h.Alert("Inputs have to be positive numbers")

	reader := bufio.NewReader(resp.Body)
	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var event struct {
		Type    EventType         `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, EventAlert, event.Type)
	assert.Equal(t, "Inputs have to be positive numbers", event.Payload["message"])
}
