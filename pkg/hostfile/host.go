// Package hostfile provides a sense.Environment backed by a YAML or JSON
// host document on disk. Editing the file raises the events a live host
// would raise, so accessors can be driven from outside the process.
package hostfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/sense"
)

// Host is a file-backed environment.
type Host struct {
	path  string
	codec sense.Codec

	mu     sync.RWMutex
	doc    Document
	loaded bool
	media  map[string]*mediaList

	window     *sense.EventTarget
	document   *sense.EventTarget
	screen     *sense.EventTarget
	connection *sense.EventTarget
	battery    *sense.EventTarget
}

// New creates a Host for path. The codec is chosen from the extension.
// Nothing is read until Load or Watch.
func New(path string) *Host {
	return &Host{
		path:       path,
		codec:      sense.CodecFor(path),
		media:      make(map[string]*mediaList),
		window:     sense.NewEventTarget(),
		document:   sense.NewEventTarget(),
		screen:     sense.NewEventTarget(),
		connection: sense.NewEventTarget(),
		battery:    sense.NewEventTarget(),
	}
}

// Path returns the watched file.
func (h *Host) Path() string {
	return h.path
}

// Document returns a copy of the current host document.
func (h *Host) Document() Document {
	return h.snapshot()
}

// Lookup implements sense.Environment. Paths resolve only while the
// document declares the section behind them.
func (h *Host) Lookup(path string) (any, bool) {
	d := h.snapshot()
	switch path {
	case "window":
		return windowObject{EventTarget: h.window, h: h}, true
	case "document":
		return h.document, true
	case "window.matchMedia":
		if d.Media == nil {
			return nil, false
		}
		return matcherObject{h: h}, true
	case "navigator.onLine":
		if d.Navigator == nil || d.Navigator.OnLine == nil {
			return nil, false
		}
		return navigatorObject{h: h}, true
	case "navigator.connection":
		if d.Navigator == nil || d.Navigator.Connection == nil {
			return nil, false
		}
		return connectionObject{EventTarget: h.connection, h: h}, true
	case "navigator.connection.saveData":
		if d.Navigator == nil || d.Navigator.Connection == nil || d.Navigator.Connection.SaveData == nil {
			return nil, false
		}
		return connectionObject{EventTarget: h.connection, h: h}, true
	case "navigator.getBattery":
		if d.Navigator == nil || d.Navigator.NoGetBattery {
			return nil, false
		}
		return batteryAcquirer{h: h}, true
	case "screen":
		if d.Screen == nil {
			return nil, false
		}
		return screenObject{EventTarget: h.screen, h: h}, true
	case "screen.orientation", "screen.mozOrientation", "screen.msOrientation":
		if d.Screen == nil || d.Screen.Orientation == nil {
			return nil, false
		}
		if orientationPaths[d.Screen.dialect()] != path {
			return nil, false
		}
		return orientationObject{h: h}, true
	case "document.hidden", "document.msHidden", "document.webkitHidden":
		if d.Document == nil {
			return nil, false
		}
		page := pageObject{EventTarget: h.document, h: h}
		switch dialect := d.Document.dialect(); {
		case dialect == "standard" && path == "document.hidden":
			return standardPage{page}, true
		case dialect == "ms" && path == "document.msHidden":
			return msPage{page}, true
		case dialect == "webkit" && path == "document.webkitHidden":
			return webkitPage{page}, true
		}
	}
	return nil, false
}

var orientationPaths = map[string]string{
	"standard": "screen.orientation",
	"moz":      "screen.mozOrientation",
	"ms":       "screen.msOrientation",
}

var visibilityEvents = map[string]string{
	"standard": "visibilitychange",
	"ms":       "msvisibilitychange",
	"webkit":   "webkitvisibilitychange",
}

// ErrEmptyDocument rejects a host file with no content. Editors and
// os.WriteFile truncate before writing, so a watcher can observe one.
var ErrEmptyDocument = errors.New("host document is empty")

// Load reads and applies the host file. An unreadable or invalid file is
// rejected and the previous document stays in effect.
func (h *Host) Load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		h.reject(err)
		return fmt.Errorf("failed to read host file %s: %w", h.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		h.reject(ErrEmptyDocument)
		return fmt.Errorf("%w: %s", ErrEmptyDocument, h.path)
	}
	var doc Document
	if err := sense.Decode(data, h.codec, &doc); err != nil {
		h.reject(err)
		return err
	}
	h.Apply(doc)
	return nil
}

// Apply replaces the document and raises an event for every section that
// changed. Returns the number of events dispatched.
func (h *Host) Apply(doc Document) int {
	h.mu.Lock()
	prev, first := h.doc, !h.loaded
	h.doc, h.loaded = doc, true
	h.mu.Unlock()

	changes := diff(prev, doc, first)
	for _, c := range changes {
		h.dispatch(c)
	}
	capitan.Emit(context.Background(), HostLoaded,
		KeyPath.Field(h.path),
		KeyDispatched.Field(len(changes)),
	)
	return len(changes)
}

// Watch loads the file and then reloads it on every write until ctx is
// cancelled. Reload failures are reported through HostRejected and do not
// stop the watch.
func (h *Host) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(h.path); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", h.path, err)
	}

	// Initial load; a bad file still leaves the watch running.
	_ = h.Load() //nolint:errcheck // reported through HostRejected

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			_ = h.Load() //nolint:errcheck // reported through HostRejected

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.reject(err)
		}
	}
}

func (h *Host) snapshot() Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc
}

func (h *Host) mediaList(query string) *mediaList {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.media[query]
	if !ok {
		l = &mediaList{EventTarget: sense.NewEventTarget(), h: h, query: query}
		h.media[query] = l
	}
	return l
}

func (h *Host) target(t targetName) *sense.EventTarget {
	switch t {
	case targetWindow:
		return h.window
	case targetDocument:
		return h.document
	case targetScreen:
		return h.screen
	case targetConnection:
		return h.connection
	case targetBattery:
		return h.battery
	}
	return nil
}

func (h *Host) dispatch(c change) {
	if c.target == targetMedia {
		h.mu.RLock()
		l := h.media[c.query]
		h.mu.RUnlock()
		if l != nil {
			l.Dispatch(c.event, nil)
		}
		return
	}
	h.target(c.target).Dispatch(c.event, nil)
}

func (h *Host) reject(err error) {
	capitan.Emit(context.Background(), HostRejected,
		KeyPath.Field(h.path),
		sense.KeyError.Field(err.Error()),
	)
}
