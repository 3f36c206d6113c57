// Package publish delivers rendered frames to viewers.
package publish

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/google/uuid"

	"github.com/litescript/ls-telescope/internal/logging"
	"github.com/litescript/ls-telescope/internal/render"
)

// Publisher consumes frames. Publish must return promptly.
type Publisher interface {
	Publish(render.Frame)
}

// Discard drops every frame.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(render.Frame) {}

// Multi fans a frame out to several publishers in order.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(f render.Frame) {
	for _, p := range m {
		p.Publish(f)
	}
}

// HTTPStream keeps the latest frame and serves it as a PNG snapshot and as
// an MJPEG stream. Slow viewers skip frames rather than stall the publisher.
type HTTPStream struct {
	id      string
	quality int
	log     *logging.Logger

	mu          sync.RWMutex
	latest      render.Frame
	have        bool
	subscribers map[string]chan render.Frame
}

// StreamOption configures an HTTPStream.
type StreamOption func(*HTTPStream)

// WithJPEGQuality sets the MJPEG encoder quality (1-100).
func WithJPEGQuality(q int) StreamOption {
	return func(s *HTTPStream) {
		if q >= 1 && q <= 100 {
			s.quality = q
		}
	}
}

// WithLogger sets the stream logger.
func WithLogger(l *logging.Logger) StreamOption {
	return func(s *HTTPStream) {
		s.log = l
	}
}

// NewHTTPStream creates a stream with a fresh ID.
func NewHTTPStream(opts ...StreamOption) *HTTPStream {
	s := &HTTPStream{
		id:          uuid.NewString(),
		quality:     80,
		log:         logging.Discard(),
		subscribers: make(map[string]chan render.Frame),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the stream ID.
func (s *HTTPStream) ID() string {
	return s.id
}

// Publish stores f as the latest frame and offers it to every viewer.
func (s *HTTPStream) Publish(f render.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = f
	s.have = true
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- f
	}
}

// Latest returns the most recent frame.
func (s *HTTPStream) Latest() (render.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.have
}

// Subscribe registers a viewer. The channel holds at most one pending frame.
func (s *HTTPStream) Subscribe() (string, <-chan render.Frame) {
	id := uuid.NewString()
	ch := make(chan render.Frame, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[id] = ch
	if s.have {
		ch <- s.latest
	}
	return id, ch
}

// Unsubscribe removes a viewer and closes its channel.
func (s *HTTPStream) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Viewers returns the number of connected stream viewers.
func (s *HTTPStream) Viewers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// AttachRoutes registers /frame.png and /stream.mjpg on mux.
func (s *HTTPStream) AttachRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/frame.png", s.handleSnapshot)
	mux.HandleFunc("/stream.mjpg", s.handleStream)
}

func (s *HTTPStream) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, ok := s.Latest()
	if !ok {
		http.Error(w, "No frame yet", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode frame: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Stream-Id", s.id)
	w.Write(buf.Bytes())
}

func (s *HTTPStream) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Stream-Id", s.id)

	id, frames := s.Subscribe()
	defer s.Unsubscribe(id)
	s.log.Debug("viewer %s connected to stream %s", id, s.id)
	defer s.log.Debug("viewer %s disconnected", id)

	var buf bytes.Buffer
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return
			}
			buf.Reset()
			if err := jpeg.Encode(&buf, f.Image(), &jpeg.Options{Quality: s.quality}); err != nil {
				s.log.Warn("encode stream frame: %v", err)
				continue
			}
			part, err := mw.CreatePart(textproto.MIMEHeader{
				"Content-Type":   {"image/jpeg"},
				"Content-Length": {fmt.Sprint(buf.Len())},
			})
			if err != nil {
				return
			}
			if _, err := part.Write(buf.Bytes()); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
