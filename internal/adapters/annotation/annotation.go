// Package annotation reads the tab-separated timeline file that pairs a
// match video with its game events. The first four data rows are setup:
// two hero rows in either order, then the two starting life rows whose
// order decides who takes the first turn. Every later row is a timestamped
// event, non-decreasing in (sec, milli).
package annotation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/life"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timeline"
)

// Column order of the annotation format.
const (
	colSec = iota
	colMilli
	colName
	colPitch
	colPlayer1Life
	colPlayer2Life
	colUpdateType

	colCount
)

// Row tags carried in the update_type column.
const (
	TypeHero1 = "hero1"
	TypeHero2 = "hero2"
	TypeCard  = "card"
	TypeLife  = "life"
	TypeTurn  = "turn"
	TypeWin1  = "win1"
	TypeWin2  = "win2"
	TypeZoom  = "zoom"
)

// Header is the expected first line of an annotation file.
var Header = []string{"sec", "milli", "name", "pitch", "player1_life", "player2_life", "update_type"}

const setupRows = 4

// Parse reads a whole annotation file: the setup block, then the event
// timeline. Any malformed row aborts the parse.
func Parse(r io.Reader) (match.Setup, *timeline.Timeline, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = colCount

	if _, err := cr.Read(); err != nil {
		return match.Setup{}, nil, fmt.Errorf("%w: missing header: %v", ErrMalformedRow, err)
	}

	setup, err := parseSetup(cr)
	if err != nil {
		return match.Setup{}, nil, err
	}

	var events []timeline.Event
	for row := setupRows + 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return match.Setup{}, nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, row, err)
		}
		evs, err := parseEvent(rec, row)
		if err != nil {
			return match.Setup{}, nil, err
		}
		events = append(events, evs...)
	}

	tl, err := timeline.New(events)
	if err != nil {
		return match.Setup{}, nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return setup, tl, nil
}

// parseSetup consumes the two hero rows and the two starting life rows.
func parseSetup(cr *csv.Reader) (match.Setup, error) {
	var setup match.Setup

	for i := 0; i < 2; i++ {
		rec, err := cr.Read()
		if err != nil {
			return setup, fmt.Errorf("%w: missing hero row: %v", ErrBadSetup, err)
		}
		name := strings.TrimSpace(rec[colName])
		if name == "" {
			return setup, fmt.Errorf("%w: hero row without a name", ErrBadSetup)
		}
		switch strings.TrimSpace(rec[colUpdateType]) {
		case TypeHero1:
			setup.Hero1 = name
		case TypeHero2:
			setup.Hero2 = name
		default:
			return setup, fmt.Errorf("%w: expected hero row, got %q", ErrBadSetup, rec[colUpdateType])
		}
	}
	if setup.Hero1 == "" || setup.Hero2 == "" {
		return setup, fmt.Errorf("%w: both hero rows must be present", ErrBadSetup)
	}

	for i := 0; i < 2; i++ {
		rec, err := cr.Read()
		if err != nil {
			return setup, fmt.Errorf("%w: missing starting life row: %v", ErrBadSetup, err)
		}
		p1 := strings.TrimSpace(rec[colPlayer1Life])
		p2 := strings.TrimSpace(rec[colPlayer2Life])
		switch {
		case p1 != "" && p2 != "":
			return setup, fmt.Errorf("%w: starting life row sets both players", ErrBadSetup)
		case p1 != "":
			if setup.Life1, err = strconv.Atoi(p1); err != nil {
				return setup, fmt.Errorf("%w: bad starting life %q", ErrBadSetup, p1)
			}
			if setup.FirstTurn == match.PlayerNone {
				setup.FirstTurn = match.Player1
			}
		case p2 != "":
			if setup.Life2, err = strconv.Atoi(p2); err != nil {
				return setup, fmt.Errorf("%w: bad starting life %q", ErrBadSetup, p2)
			}
			if setup.FirstTurn == match.PlayerNone {
				setup.FirstTurn = match.Player2
			}
		default:
			return setup, fmt.Errorf("%w: starting life row sets neither player", ErrBadSetup)
		}
	}
	return setup, nil
}

// parseEvent maps one timeline row onto its events. A life row may carry
// an update for each player, so it can yield two.
func parseEvent(rec []string, row int) ([]timeline.Event, error) {
	at, err := parseTick(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, row, err)
	}

	switch strings.TrimSpace(rec[colUpdateType]) {
	case TypeCard:
		name := strings.TrimSpace(rec[colName])
		if name == "" {
			return nil, fmt.Errorf("%w: row %d: card row without a name", ErrMalformedRow, row)
		}
		pitch := 0
		if p := strings.TrimSpace(rec[colPitch]); p != "" {
			if pitch, err = strconv.Atoi(p); err != nil {
				return nil, fmt.Errorf("%w: row %d: bad pitch %q", ErrMalformedRow, row, p)
			}
		}
		return []timeline.Event{timeline.CardPlayed{Time: at, Name: name, Pitch: pitch}}, nil

	case TypeLife:
		var events []timeline.Event
		cols := []struct {
			player match.Player
			col    int
		}{
			{match.Player1, colPlayer1Life},
			{match.Player2, colPlayer2Life},
		}
		for _, c := range cols {
			player := c.player
			token := strings.TrimSpace(rec[c.col])
			if token == "" {
				continue
			}
			update, err := life.ParseUpdate(token)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, row, err)
			}
			events = append(events, timeline.LifeChanged{Time: at, Player: player, Update: update})
		}
		if len(events) == 0 {
			return nil, fmt.Errorf("%w: row %d: life row without an update", ErrMalformedRow, row)
		}
		return events, nil

	case TypeTurn:
		return []timeline.Event{timeline.TurnChanged{Time: at}}, nil

	case TypeWin1:
		return []timeline.Event{timeline.Won{Time: at, Player: match.Player1}}, nil

	case TypeWin2:
		return []timeline.Event{timeline.Won{Time: at, Player: match.Player2}}, nil

	case TypeZoom:
		return []timeline.Event{timeline.Zoom{Time: at}}, nil

	default:
		return nil, fmt.Errorf("%w: row %d: unknown update type %q", ErrMalformedRow, row, rec[colUpdateType])
	}
}

func parseTick(rec []string) (timecode.Tick, error) {
	sec, err := strconv.ParseUint(strings.TrimSpace(rec[colSec]), 10, 64)
	if err != nil {
		return timecode.Tick{}, fmt.Errorf("bad sec %q", rec[colSec])
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(rec[colMilli]), 64)
	if err != nil || milli < 0 {
		return timecode.Tick{}, fmt.Errorf("bad milli %q", rec[colMilli])
	}
	return timecode.At(sec, milli), nil
}
