package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	gmailspace "github.com/thehowl/gmailspace"
	"github.com/thehowl/gmailspace/internal/alphabet"
	"github.com/thehowl/gmailspace/internal/cursor"
	"github.com/thehowl/gmailspace/internal/version"
)

// suggestionLimit caps the suggestions attached to a rejected username.
const suggestionLimit = 5

// Indices are sent as decimal strings: they exceed the range JSON numbers
// can carry without loss.
type entryResponse struct {
	Index    string `json:"index"`
	Username string `json:"username"`
}

func newEntryResponse(e gmailspace.Entry) entryResponse {
	return entryResponse{Index: e.Index.String(), Username: e.Username}
}

type pageResponse struct {
	Entries []entryResponse `json:"entries"`
	Next    string          `json:"next,omitempty"`
}

type bandResponse struct {
	Length int    `json:"length"`
	Offset string `json:"offset"`
	Count  string `json:"count"`
}

type statsResponse struct {
	Total     string         `json:"total"`
	Alphabet  string         `json:"alphabet"`
	MinLength int            `json:"min_length"`
	MaxLength int            `json:"max_length"`
	Bands     []bandResponse `json:"bands"`
	Version   string         `json:"version"`
}

func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := new(big.Int).SetString(mux.Vars(r)["index"], 10)
	if !ok {
		s.writeError(w, ErrorInvalidIndex)
		return
	}
	name, err := gmailspace.Decode(idx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, r, entryResponse{Index: idx.String(), Username: name}, true)
}

func (s *Server) encodeHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["username"]
	if normalize, _ := strconv.ParseBool(r.URL.Query().Get("normalize")); normalize {
		name = gmailspace.Normalize(name)
	}

	var invalid *gmailspace.InvalidError
	if err := gmailspace.Validate(name); errors.As(err, &invalid) {
		s.writeInvalidUsername(w, name, invalid)
		return
	}
	idx, ok := gmailspace.Encode(name)
	if !ok {
		s.writeError(w, ErrorInternalError)
		return
	}
	s.writeJSON(w, r, entryResponse{Index: idx.String(), Username: name}, true)
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start := new(big.Int)
	switch {
	case q.Get("cursor") != "":
		c, err := cursor.Decode(q.Get("cursor"))
		if err != nil {
			s.writeError(w, ErrorInvalidCursor.withMessage(err.Error()))
			return
		}
		start = c
	case q.Get("start") != "":
		if _, ok := start.SetString(q.Get("start"), 10); !ok {
			s.writeError(w, ErrorInvalidIndex)
			return
		}
	}

	size := s.cfg.Page.DefaultSize
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, ErrorInvalidSize)
			return
		}
		size = min(n, s.cfg.Page.MaxSize)
	}

	entries, err := gmailspace.Page(r.Context(), start, size, s.cfg.Page.Workers)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := pageResponse{Entries: make([]entryResponse, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = newEntryResponse(e)
	}
	next := new(big.Int).Add(start, big.NewInt(int64(len(entries))))
	if next.Cmp(gmailspace.Total()) < 0 {
		resp.Next = cursor.Encode(next)
	}
	s.writeJSON(w, r, resp, true)
}

func (s *Server) randomHandler(w http.ResponseWriter, r *http.Request) {
	e, err := gmailspace.Random(s.random)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, r, newEntryResponse(e), false)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Total:     gmailspace.Total().String(),
		Alphabet:  alphabet.Symbols(),
		MinLength: gmailspace.MinLength,
		MaxLength: gmailspace.MaxLength,
		Version:   version.Version,
	}
	for _, b := range gmailspace.Bands() {
		resp.Bands = append(resp.Bands, bandResponse{
			Length: b.Length,
			Offset: b.Offset.String(),
			Count:  b.Count.String(),
		})
	}
	s.writeJSON(w, r, resp, true)
}

// writeJSON writes v as the response body. Cacheable responses carry an
// ETag derived from the body and honor If-None-Match.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any, cacheable bool) {
	body, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if cacheable {
		etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) writeInvalidUsername(w http.ResponseWriter, name string, invalid *gmailspace.InvalidError) {
	msg := invalidUsernameMessage{
		errorMessage: errorMessage{
			Status:  "INVALID USERNAME",
			Message: invalid.Error(),
		},
		Reason:      invalid.Reason.String(),
		Position:    invalid.Pos,
		Suggestions: []entryResponse{},
	}
	for _, sg := range gmailspace.Suggest(name, suggestionLimit) {
		msg.Suggestions = append(msg.Suggestions, entryResponse{Index: sg.Index.String(), Username: sg.Username})
	}
	writeBody(w, http.StatusUnprocessableEntity, msg)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var se statusError
	switch {
	case errors.As(err, &se):
	case errors.Is(err, gmailspace.ErrOutOfRange):
		se = ErrorIndexOutOfRange
	default:
		s.log.Error("request failed", zap.Error(err))
		se = ErrorInternalError
	}
	writeBody(w, se.StatusCode(), errorMessage{
		Status:  se.Status(),
		Message: se.Error(),
	})
}

func writeBody(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
