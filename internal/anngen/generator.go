package anngen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/annotation"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
)

// row is one line of the generated annotation file, in column order.
type row struct {
	sec   string
	milli string
	name  string
	pitch string
	p1    string
	p2    string
	kind  string
}

func (r row) record() []string {
	return []string{r.sec, r.milli, r.name, r.pitch, r.p1, r.p2, r.kind}
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, n).
func randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateScript builds a full annotation script: the setup block followed
// by a timestamped event timeline that ends with a win row.
func generateScript(ctx context.Context, config *Config, cards carddb.Store, stats *Stats) ([]row, error) {
	heroes := cards.Heroes()
	if len(heroes) < 2 {
		return nil, fmt.Errorf("card index has %d heroes, need at least 2", len(heroes))
	}

	var playable []carddb.Card
	for _, c := range cards.Cards() {
		if !c.IsHero() {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return nil, fmt.Errorf("card index has no playable cards")
	}

	hero1 := heroes[randomInt(len(heroes))]
	hero2 := heroes[randomInt(len(heroes))]
	for hero2.ID == hero1.ID {
		hero2 = heroes[randomInt(len(heroes))]
	}

	first := match.Player1
	if getRandomFloat() < 0.5 {
		first = match.Player2
	}

	logger.Get().Info(ctx, "generating match script",
		logger.String("hero1", hero1.Name),
		logger.String("hero2", hero2.Name),
		logger.String("firstTurn", first.String()),
		logger.Int("turns", config.Turns))

	rows := setupRows(hero1, hero2, first)

	life := map[match.Player]int{
		match.Player1: startLife(hero1),
		match.Player2: startLife(hero2),
	}

	turnLen := float64(config.Duration.Milliseconds()) / float64(config.Turns)
	attacker := first
	cursor := 0.0

	for turn := 0; turn < config.Turns; turn++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during script generation: %w", ctx.Err())
		default:
		}

		turnEnd := cursor + turnLen
		rows = append(rows, eventRow(cursor, annotation.TypeTurn))
		stats.Turns++

		plays := 1 + randomInt(config.MaxPerTurn)
		step := turnLen / float64(plays+1)
		for p := 0; p < plays; p++ {
			cursor += step * (0.5 + getRandomFloat())
			if cursor >= turnEnd {
				cursor = turnEnd
			}

			card := playable[randomInt(len(playable))]
			cr := eventRow(cursor, annotation.TypeCard)
			cr.name = card.Name
			if card.Pitch > 0 {
				cr.pitch = strconv.Itoa(card.Pitch)
			}
			rows = append(rows, cr)
			stats.CardsPlayed++

			if getRandomFloat() < zoomChance {
				rows = append(rows, eventRow(cursor, annotation.TypeZoom))
				stats.Zooms++
			}

			defender := attacker.Other()
			if getRandomFloat() < damageChance {
				amount := damageMin + randomInt(damageRange)
				if amount >= life[defender] {
					rows = append(rows, lifeRow(cursor, defender, "-"+strconv.Itoa(life[defender])))
					stats.LifeUpdates++
					life[defender] = 0
					return finishScript(rows, cursor, attacker, stats), nil
				}
				life[defender] -= amount
				rows = append(rows, lifeRow(cursor, defender, "-"+strconv.Itoa(amount)))
				stats.LifeUpdates++
			} else if getRandomFloat() < healChance {
				amount := healMin + randomInt(healRange)
				life[attacker] += amount
				rows = append(rows, lifeRow(cursor, attacker, "+"+strconv.Itoa(amount)))
				stats.LifeUpdates++
			}
		}

		cursor = turnEnd
		attacker = attacker.Other()
	}

	// Nobody died. Higher remaining life takes the match.
	winner := match.Player1
	if life[match.Player2] > life[match.Player1] {
		winner = match.Player2
	}
	return finishScript(rows, cursor, winner, stats), nil
}

// finishScript appends the win row and records the winner.
func finishScript(rows []row, cursor float64, winner match.Player, stats *Stats) []row {
	kind := annotation.TypeWin1
	if winner == match.Player2 {
		kind = annotation.TypeWin2
	}
	stats.Winner = winner.String()
	return append(rows, eventRow(cursor+winDelay, kind))
}

// setupRows builds the four-row setup block. The first starting life row
// written decides who takes the first turn.
func setupRows(hero1, hero2 carddb.Card, first match.Player) []row {
	rows := []row{
		{sec: "0", milli: "0", name: hero1.Name, kind: annotation.TypeHero1},
		{sec: "0", milli: "0", name: hero2.Name, kind: annotation.TypeHero2},
	}

	l1 := row{sec: "0", milli: "0", p1: strconv.Itoa(startLife(hero1)), kind: annotation.TypeLife}
	l2 := row{sec: "0", milli: "0", p2: strconv.Itoa(startLife(hero2)), kind: annotation.TypeLife}
	if first == match.Player1 {
		return append(rows, l1, l2)
	}
	return append(rows, l2, l1)
}

func startLife(hero carddb.Card) int {
	if hero.Health > 0 {
		return hero.Health
	}
	return fallbackStartLife
}

func eventRow(atMs float64, kind string) row {
	ms := int64(atMs)
	return row{
		sec:   strconv.FormatInt(ms/1000, 10),
		milli: strconv.FormatInt(ms%1000, 10),
		kind:  kind,
	}
}

func lifeRow(atMs float64, player match.Player, token string) row {
	r := eventRow(atMs, annotation.TypeLife)
	if player == match.Player1 {
		r.p1 = token
	} else {
		r.p2 = token
	}
	return r
}
