package routepath

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/bnema/panectl/internal/domain/entity"
)

const (
	levelSeparator   = ";"
	siblingSeparator = "|"
	chunkSeparator   = ","
	paramSeparator   = "="
)

var (
	ErrEmptyID      = errors.New("empty pane id")
	ErrEmptyKey     = errors.New("empty param key")
	ErrBadEscape    = errors.New("invalid escape sequence")
	ErrBadPayload   = errors.New("invalid payload")
	ErrDuplicateKey = errors.New("duplicate param key")
)

// ChunkError describes a chunk that was skipped while decoding.
type ChunkError struct {
	Level   int
	Sibling int
	Chunk   string
	Err     error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("level %d sibling %d: chunk %q: %v", e.Level, e.Sibling, e.Chunk, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Decode parses a URL pane segment into a route path.
//
// Levels are separated by ';', siblings by '|' and chunks by ','. The first
// chunk is the pane id, key=value chunks are params and any other chunk is
// a base64url JSON payload. Malformed chunks are skipped and reported in
// the returned slice; decoding always continues. A split sibling with an
// empty id reuses the primary sibling's id.
func Decode(segment string) (entity.RoutePath, []error) {
	var (
		path     = entity.RoutePath{}
		warnings []error
	)

	for _, rawLevel := range strings.Split(segment, levelSeparator) {
		if strings.TrimSpace(rawLevel) == "" {
			continue
		}
		levelIdx := len(path)
		level := entity.RouteLevel{}

		for sibIdx, rawSibling := range strings.Split(rawLevel, siblingSeparator) {
			sib, errs := decodeSibling(rawSibling, levelIdx, sibIdx)
			warnings = append(warnings, errs...)

			if sib.ID == "" {
				if len(level) == 0 {
					warnings = append(warnings, &ChunkError{Level: levelIdx, Sibling: sibIdx, Chunk: rawSibling, Err: ErrEmptyID})
					continue
				}
				sib.ID = level[0].ID
			}
			level = append(level, sib)
		}

		if len(level) > 0 {
			path = append(path, level)
		}
	}

	return path, warnings
}

func decodeSibling(raw string, levelIdx, sibIdx int) (entity.RouteSibling, []error) {
	var warnings []error
	chunks := strings.Split(raw, chunkSeparator)

	id, err := url.QueryUnescape(chunks[0])
	if err != nil {
		warnings = append(warnings, &ChunkError{Level: levelIdx, Sibling: sibIdx, Chunk: chunks[0], Err: ErrBadEscape})
		id = ""
	}
	sib := entity.RouteSibling{ID: id, Params: map[string]string{}}

	for _, chunk := range chunks[1:] {
		if chunk == "" {
			continue
		}
		fail := func(err error) {
			warnings = append(warnings, &ChunkError{Level: levelIdx, Sibling: sibIdx, Chunk: chunk, Err: err})
		}

		key, value, isParam := strings.Cut(chunk, paramSeparator)
		if !isParam {
			payload, err := decodePayload(chunk)
			if err != nil {
				fail(err)
				continue
			}
			sib.Payload = payload
			continue
		}

		k, kerr := url.QueryUnescape(key)
		v, verr := url.QueryUnescape(value)
		switch {
		case kerr != nil || verr != nil:
			fail(ErrBadEscape)
		case k == "":
			fail(ErrEmptyKey)
		default:
			if _, dup := sib.Params[k]; dup {
				fail(ErrDuplicateKey)
				continue
			}
			sib.Params[k] = v
		}
	}

	return sib, warnings
}

func decodePayload(chunk string) (any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(chunk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return payload, nil
}

// Encode renders a route path as a URL pane segment. Params are written in
// key order. A split sibling repeating the primary's id is written with an
// empty id. Payloads that cannot be marshalled are dropped.
func Encode(path entity.RoutePath) string {
	levels := make([]string, 0, len(path))
	for _, level := range path {
		if len(level) == 0 {
			continue
		}
		siblings := make([]string, 0, len(level))
		for i, sib := range level {
			siblings = append(siblings, encodeSibling(sib, i > 0 && sib.ID == level[0].ID))
		}
		levels = append(levels, strings.Join(siblings, siblingSeparator))
	}
	return strings.Join(levels, levelSeparator)
}

func encodeSibling(sib entity.RouteSibling, elideID bool) string {
	chunks := make([]string, 0, 1+len(sib.Params)+1)
	if elideID {
		chunks = append(chunks, "")
	} else {
		chunks = append(chunks, url.QueryEscape(sib.ID))
	}

	keys := make([]string, 0, len(sib.Params))
	for k := range sib.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		chunks = append(chunks, url.QueryEscape(k)+paramSeparator+url.QueryEscape(sib.Params[k]))
	}

	if sib.Payload != nil {
		if raw, err := json.Marshal(sib.Payload); err == nil {
			chunks = append(chunks, base64.RawURLEncoding.EncodeToString(raw))
		}
	}

	if elideID && len(chunks) == 1 {
		// bare splits keep their id so "a|a" does not become "a|"
		chunks[0] = url.QueryEscape(sib.ID)
	}
	return strings.Join(chunks, chunkSeparator)
}
