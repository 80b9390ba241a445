package matches

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPlayerName      = errors.New("empty player name")
	ErrTeamTooLarge         = errors.New("team too large")
	ErrUnsupportedMatchSize = errors.New("unsupported match size")
	ErrDuplicatePlayer      = errors.New("duplicate player across teams")
	ErrNegativeScore        = errors.New("negative score")
	ErrTie                  = errors.New("tie not allowed")
	ErrWinnerMismatch       = errors.New("winner/score mismatch")
	ErrNegativeDuration     = errors.New("negative match duration")
)

const maxTeamSize = 2

// Validate checks a submission and returns it with trimmed team names.
// Checks run in a fixed order and the first failure is returned. It touches
// no stored state, so repeated submissions of the same result all pass.
func Validate(s Submission) (Submission, error) {
	teamA, err := trimNames(s.TeamA)
	if err != nil {
		return Submission{}, err
	}
	teamB, err := trimNames(s.TeamB)
	if err != nil {
		return Submission{}, err
	}

	if len(teamA) > maxTeamSize || len(teamB) > maxTeamSize {
		return Submission{}, ErrTeamTooLarge
	}
	// 1v1, 1v2, 2v1 and 2v2; an empty side is never a match.
	if total := len(teamA) + len(teamB); total < 2 || total > 2*maxTeamSize || len(teamA) == 0 || len(teamB) == 0 {
		return Submission{}, ErrUnsupportedMatchSize
	}

	// A name may appear once across both teams, same side included.
	seen := make(map[string]struct{}, len(teamA)+len(teamB))
	for _, n := range append(append([]string{}, teamA...), teamB...) {
		if _, ok := seen[n]; ok {
			return Submission{}, ErrDuplicatePlayer
		}
		seen[n] = struct{}{}
	}

	if s.GoalsA < 0 || s.GoalsB < 0 {
		return Submission{}, ErrNegativeScore
	}
	if s.GoalsA == s.GoalsB {
		return Submission{}, ErrTie
	}
	expected := TeamB
	if s.GoalsA > s.GoalsB {
		expected = TeamA
	}
	if s.Winner != expected {
		return Submission{}, ErrWinnerMismatch
	}

	if s.MatchDuration != nil && *s.MatchDuration < 0 {
		return Submission{}, ErrNegativeDuration
	}

	out := s
	out.TeamA = teamA
	out.TeamB = teamB
	return out, nil
}

func trimNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		t := strings.TrimSpace(n)
		if t == "" {
			return nil, ErrEmptyPlayerName
		}
		out = append(out, t)
	}
	return out, nil
}
