package protocol

import (
	"fmt"
	"strings"

	"github.com/unkn0wn-root/lrustore"
	"github.com/unkn0wn-root/lrustore/codec"
)

const defaultSnapshotPath = "lrustore.dat"

const helpText = `Available Commands:
SET <key> <value>   - Store a key-value pair
GET <key>           - Retrieve a value by key
DELETE <key>        - Remove a key
EXISTS <key>        - Check if key exists
SIZE                - Get number of entries
STATS               - Get cache statistics
CLEAR               - Remove all entries
PING [message]      - Test connection
SAVE                - Write a best-effort snapshot to disk
HELP                - Show this help`

// Handler parses command lines and executes them against a Cache. One
// Handler is shared by every connection; it holds no per-request state.
type Handler struct {
	cache         *lrustore.Cache
	log           lrustore.Logger
	snapshotPath  string
	snapshotCodec codec.Codec[lrustore.Snapshot]
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger attaches a structured logger. Defaults to NopLogger.
func WithHandlerLogger(l lrustore.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSnapshot sets the path and codec used by SAVE.
func WithSnapshot(path string, cc codec.Codec[lrustore.Snapshot]) HandlerOption {
	return func(h *Handler) {
		if path != "" {
			h.snapshotPath = path
		}
		if cc != nil {
			h.snapshotCodec = cc
		}
	}
}

// NewHandler builds a Handler over cache. SAVE defaults to a msgpack dump
// at lrustore.dat in the working directory.
func NewHandler(cache *lrustore.Cache, opts ...HandlerOption) *Handler {
	h := &Handler{
		cache:         cache,
		log:           lrustore.NopLogger{},
		snapshotPath:  defaultSnapshotPath,
		snapshotCodec: codec.Msgpack[lrustore.Snapshot]{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle executes one command line and returns the encoded response.
// Malformed input yields an error response, never an empty one, so the
// connection always gets exactly one reply per line.
func (h *Handler) Handle(line string) []byte {
	parts, err := Tokenize(strings.TrimSpace(line))
	if err != nil {
		return AppendError(nil, err.Error())
	}
	if len(parts) == 0 {
		return AppendError(nil, "empty command")
	}

	cmd := strings.ToUpper(parts[0])
	args := parts[1:]

	switch cmd {
	case "SET":
		return h.handleSet(args)
	case "GET":
		return h.handleGet(args)
	case "DELETE", "DEL":
		return h.handleDelete(args)
	case "EXISTS":
		return h.handleExists(args)
	case "CLEAR":
		h.cache.Clear()
		return AppendStatus(nil, "OK")
	case "STATS":
		return h.handleStats()
	case "PING":
		return h.handlePing(args)
	case "SIZE":
		return AppendInt(nil, int64(h.cache.Len()))
	case "SAVE":
		return h.handleSave()
	case "HELP":
		return AppendBulk(nil, helpText)
	default:
		return AppendError(nil, fmt.Sprintf("unknown command '%s'", cmd))
	}
}

func (h *Handler) handleSet(args []string) []byte {
	if len(args) < 2 {
		return AppendError(nil, "SET requires key and value")
	}
	// A value containing spaces arrives as multiple tokens; rejoin with
	// single spaces (original spacing width is not preserved).
	h.cache.Put(args[0], strings.Join(args[1:], " "))
	return AppendStatus(nil, "OK")
}

func (h *Handler) handleGet(args []string) []byte {
	if len(args) < 1 {
		return AppendError(nil, "GET requires key")
	}
	v, ok := h.cache.Get(args[0])
	if !ok {
		return AppendNullBulk(nil)
	}
	return AppendBulk(nil, v)
}

func (h *Handler) handleDelete(args []string) []byte {
	if len(args) < 1 {
		return AppendError(nil, "DELETE requires key")
	}
	if _, ok := h.cache.Remove(args[0]); ok {
		return AppendInt(nil, 1)
	}
	return AppendInt(nil, 0)
}

func (h *Handler) handleExists(args []string) []byte {
	if len(args) < 1 {
		return AppendError(nil, "EXISTS requires key")
	}
	if h.cache.Contains(args[0]) {
		return AppendInt(nil, 1)
	}
	return AppendInt(nil, 0)
}

func (h *Handler) handleStats() []byte {
	st := h.cache.Stats()
	pct := float64(st.Size) * 100 / float64(st.Capacity)
	return AppendStatus(nil, fmt.Sprintf(
		"Size: %d/%d (%.2f%% full), HashIndex Load: %.2f",
		st.Size, st.Capacity, pct, st.LoadFactor))
}

func (h *Handler) handlePing(args []string) []byte {
	if len(args) == 0 {
		return AppendStatus(nil, "PONG")
	}
	return AppendBulk(nil, strings.Join(args, " "))
}

// handleSave writes a point-in-time dump. Best-effort only: a failure is
// reported to the client and nothing else happens.
func (h *Handler) handleSave() []byte {
	s := h.cache.Snapshot()
	if err := lrustore.WriteSnapshot(h.snapshotPath, s, h.snapshotCodec); err != nil {
		h.log.Error("snapshot failed", lrustore.Fields{"path": h.snapshotPath, "err": err})
		return AppendError(nil, fmt.Sprintf("failed to save: %v", err))
	}
	h.log.Info("snapshot written", lrustore.Fields{
		"path":    h.snapshotPath,
		"entries": len(s.Entries),
	})
	return AppendStatus(nil, "OK saved")
}
