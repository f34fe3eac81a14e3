package persist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/l1jgo/combatstats/internal/combat"
)

// Both stores run the same statements. Templates use :N for the Nth argument,
// GREATEST( for the two-argument maximum and %ts% for the updated_at argument;
// a dialect rewrites those three.
const (
	tmplAddKillingSpree = `INSERT INTO killing_sprees (account_id, mob, boss, player) VALUES (:1, :2, :3, :4)
		ON CONFLICT (account_id) DO UPDATE SET
		  mob = killing_sprees.mob + excluded.mob,
		  boss = killing_sprees.boss + excluded.boss,
		  player = killing_sprees.player + excluded.player`

	tmplAddKill = `INSERT INTO player_stats (account_id, %[1]s) VALUES (:1, 1)
		ON CONFLICT (account_id) DO UPDATE SET %[1]s = player_stats.%[1]s + 1`

	tmplAddDeath = `INSERT INTO player_stats (account_id, deaths) VALUES (:1, 1)
		ON CONFLICT (account_id) DO UPDATE SET deaths = player_stats.deaths + 1`

	tmplSetDamage = `INSERT INTO damage_sessions (account_id, category, session, total) VALUES (:1, :2, :3, :4)
		ON CONFLICT (account_id, category, session) DO UPDATE SET
		  total = GREATEST(damage_sessions.total, excluded.total)`

	tmplRecomputeHighScore = `INSERT INTO high_scores (account_id, score, updated_at)
		SELECT account_id, mob_kills * :2 + boss_kills * :3 + player_kills * :4 - deaths * :5, %ts%
		FROM player_stats WHERE account_id = :1
		ON CONFLICT (account_id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`

	tmplCloseKillingSpree = `UPDATE killing_sprees SET
		  best_total = GREATEST(best_total, mob + boss + player),
		  mob = 0, boss = 0, player = 0
		WHERE account_id = :1`

	tmplTopHighScores = `SELECT account_id, score FROM high_scores ORDER BY score DESC, account_id LIMIT :1`

	tmplPlayerKills = `SELECT mob_kills, boss_kills, player_kills, deaths FROM player_stats WHERE account_id = :1`

	tmplPlayerSpree = `SELECT mob, boss, player, best_total FROM killing_sprees WHERE account_id = :1`

	tmplPlayerDamage = `SELECT category, CAST(SUM(total) AS BIGINT) FROM damage_sessions WHERE account_id = :1 GROUP BY category`
)

type dialect struct {
	name        string
	placeholder func(n string) string
	greatest    string
	timestamp   string // replaces %ts%; :6 is the updated_at argument
}

var (
	postgresDialect = dialect{
		name:        "postgres",
		placeholder: func(n string) string { return "$" + n },
		greatest:    "GREATEST",
		timestamp:   "CAST(:6 AS TIMESTAMPTZ)",
	}
	sqliteDialect = dialect{
		name:        "sqlite",
		placeholder: func(n string) string { return "?" + n },
		greatest:    "MAX",
		timestamp:   ":6",
	}
)

var argRef = regexp.MustCompile(`:(\d+)`)

func (d dialect) render(tmpl string) string {
	q := strings.ReplaceAll(tmpl, "%ts%", d.timestamp)
	q = strings.ReplaceAll(q, "GREATEST(", d.greatest+"(")
	return argRef.ReplaceAllStringFunc(q, func(m string) string {
		return d.placeholder(m[1:])
	})
}

// queries holds every statement rendered for one dialect.
type queries struct {
	addKillingSpree    string
	addKill            map[combat.KillType]string
	addDeath           string
	setDamage          string
	recomputeHighScore string
	closeKillingSpree  string
	topHighScores      string
	playerKills        string
	playerSpree        string
	playerDamage       string
}

func buildQueries(d dialect) queries {
	q := queries{
		addKillingSpree:    d.render(tmplAddKillingSpree),
		addKill:            make(map[combat.KillType]string, len(combat.KillTypes)),
		addDeath:           d.render(tmplAddDeath),
		setDamage:          d.render(tmplSetDamage),
		recomputeHighScore: d.render(tmplRecomputeHighScore),
		closeKillingSpree:  d.render(tmplCloseKillingSpree),
		topHighScores:      d.render(tmplTopHighScores),
		playerKills:        d.render(tmplPlayerKills),
		playerSpree:        d.render(tmplPlayerSpree),
		playerDamage:       d.render(tmplPlayerDamage),
	}
	for _, k := range combat.KillTypes {
		col, _ := killColumn(k)
		q.addKill[k] = d.render(fmt.Sprintf(tmplAddKill, col))
	}
	return q
}
