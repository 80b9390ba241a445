package matches

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	dbpkg "github.com/kickelo/kickelo/internal/db"
)

var ErrInvalidPayload = errors.New("invalid payload")

// ----- Request payload -----

type createReq struct {
	TeamA              []string        `json:"teamA" binding:"required"`
	TeamB              []string        `json:"teamB" binding:"required"`
	Winner             string          `json:"winner" binding:"required"`
	GoalsA             *int            `json:"goalsA" binding:"required"`
	GoalsB             *int            `json:"goalsB" binding:"required"`
	PairingMetadata    json.RawMessage `json:"pairingMetadata"`
	PositionsConfirmed json.RawMessage `json:"positionsConfirmed"`
	Ranked             *bool           `json:"ranked"`
	GoalLog            json.RawMessage `json:"goalLog"`
	MatchDuration      *int            `json:"matchDuration"`
	VibrationLog       json.RawMessage `json:"vibrationLog"`
}

func toSubmission(req createReq) (Submission, error) {
	s := Submission{
		TeamA:         req.TeamA,
		TeamB:         req.TeamB,
		Winner:        req.Winner,
		Ranked:        true,
		MatchDuration: req.MatchDuration,
	}
	if req.GoalsA != nil {
		s.GoalsA = *req.GoalsA
	}
	if req.GoalsB != nil {
		s.GoalsB = *req.GoalsB
	}
	if req.Ranked != nil {
		s.Ranked = *req.Ranked
	}

	var err error
	if s.PairingMetadata, err = optional("pairingMetadata", req.PairingMetadata, '{'); err != nil {
		return Submission{}, err
	}
	if s.GoalLog, err = optional("goalLog", req.GoalLog, '['); err != nil {
		return Submission{}, err
	}
	if s.VibrationLog, err = optional("vibrationLog", req.VibrationLog, '['); err != nil {
		return Submission{}, err
	}
	if s.PositionsConfirmed, err = ParsePositionsConfirmed(req.PositionsConfirmed); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// optional keeps an opaque payload when its outer JSON type matches (object
// or array). null and absent both map to nil.
func optional(field string, raw json.RawMessage, open byte) (json.RawMessage, error) {
	if dbpkg.IsNull(raw) {
		return nil, nil
	}
	t := bytes.TrimSpace(raw)
	if t[0] != open {
		kind := "an object"
		if open == '[' {
			kind = "an array"
		}
		return nil, fmt.Errorf("%w: %s must be %s", ErrInvalidPayload, field, kind)
	}
	return t, nil
}

// ParsePositionsConfirmed accepts a boolean, an object or null.
func ParsePositionsConfirmed(raw json.RawMessage) (*PositionsConfirmed, error) {
	if dbpkg.IsNull(raw) {
		return nil, nil
	}
	t := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(t, []byte("true")), bytes.Equal(t, []byte("false")):
		v := t[0] == 't'
		return &PositionsConfirmed{Flag: &v}, nil
	case t[0] == '{':
		return &PositionsConfirmed{Details: t}, nil
	}
	return nil, fmt.Errorf("%w: positionsConfirmed must be a boolean or an object", ErrInvalidPayload)
}

// ----- Stored representation -----

func toRecord(s Submission, timestamp int64) (Record, error) {
	teamA, err := dbpkg.EncodeStrings(s.TeamA)
	if err != nil {
		return Record{}, err
	}
	teamB, err := dbpkg.EncodeStrings(s.TeamB)
	if err != nil {
		return Record{}, err
	}
	var positions json.RawMessage
	if s.PositionsConfirmed != nil {
		if positions, err = s.PositionsConfirmed.Normalized(); err != nil {
			return Record{}, err
		}
	}
	return Record{
		TeamA:              teamA,
		TeamB:              teamB,
		Winner:             s.Winner,
		GoalsA:             s.GoalsA,
		GoalsB:             s.GoalsB,
		Timestamp:          timestamp,
		PairingMetadata:    dbpkg.EncodeJSON(s.PairingMetadata),
		PositionsConfirmed: dbpkg.EncodeJSON(positions),
		Ranked:             s.Ranked,
		GoalLog:            dbpkg.EncodeJSON(s.GoalLog),
		MatchDuration:      s.MatchDuration,
		VibrationLog:       dbpkg.EncodeJSON(s.VibrationLog),
	}, nil
}

// ----- Read side -----

// ToAPI renders a stored row. Unreadable columns fall back to their empty
// value; the vibration log is never part of the output.
func ToAPI(r Record) Match {
	return Match{
		ID:                 strconv.FormatInt(r.ID, 10),
		TeamA:              dbpkg.DecodeStrings(r.TeamA),
		TeamB:              dbpkg.DecodeStrings(r.TeamB),
		Winner:             r.Winner,
		GoalsA:             r.GoalsA,
		GoalsB:             r.GoalsB,
		Timestamp:          r.Timestamp,
		PairingMetadata:    dbpkg.DecodeObject(r.PairingMetadata),
		PositionsConfirmed: dbpkg.DecodeObject(r.PositionsConfirmed),
		Ranked:             r.Ranked,
		GoalLog:            dbpkg.DecodeList(r.GoalLog),
		MatchDuration:      r.MatchDuration,
	}
}

func ToAPIList(list []Record) []Match {
	out := make([]Match, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPI(r))
	}
	return out
}
