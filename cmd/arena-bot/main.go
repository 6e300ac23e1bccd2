package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"bracket-arbiter/internal/config"
	"bracket-arbiter/internal/match"
)

// Drives a four-player bracket end to end against a running server: two
// clean round-1 matches, then a disputed final settled by two jurors.

type client struct {
	base string
	http *http.Client
}

func (c *client) call(method, wallet, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		req.Header.Set("X-Wallet-Address", wallet)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *client) post(wallet, path string, body, out any) error {
	return c.call(http.MethodPost, wallet, path, body, out)
}

func (c *client) get(path string, out any) error {
	return c.call(http.MethodGet, "", path, nil, out)
}

type matchView struct {
	ID             string `json:"id"`
	Round          int    `json:"round"`
	Status         string `json:"status"`
	Player1        string `json:"player1"`
	Player2        string `json:"player2"`
	Winner         string `json:"winner"`
	JuryCollateral int64  `json:"jury_collateral"`
}

func (m matchView) players() []string {
	return []string{m.Player1, m.Player2}
}

func (c *client) requiredStake(wallet string) int64 {
	var rep struct {
		RequiredStake int64 `json:"required_stake"`
	}
	if err := c.get("/api/participants/"+wallet+"/reputation", &rep); err != nil {
		log.Fatalf("reputation %s: %v", wallet, err)
	}
	return rep.RequiredStake
}

func (c *client) openMatches(tournamentID string, round int) []matchView {
	var list struct {
		Items []matchView `json:"items"`
	}
	if err := c.get("/api/tournaments/"+tournamentID+"/matches", &list); err != nil {
		log.Fatalf("list matches: %v", err)
	}
	out := []matchView{}
	for _, m := range list.Items {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal(err)
	}
	c := &client{base: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}

	players := []string{"0xalice", "0xbob", "0xcarol", "0xdave"}
	jurors := []string{"0xerin", "0xfrank"}

	var t struct {
		ID string `json:"id"`
	}
	err = c.post(players[0], "/api/tournaments", map[string]any{
		"name":             "arena bot bracket",
		"entry_fee":        cfg.EntryFee,
		"max_participants": 4,
		"start_time":       time.Now().Unix(),
	}, &t)
	if err != nil {
		log.Fatalf("create tournament: %v", err)
	}
	log.Printf("tournament %s created", t.ID)

	for _, p := range players {
		if err := c.post(p, "/api/tournaments/"+t.ID+"/register", map[string]any{"payment": cfg.EntryFee}, nil); err != nil {
			log.Fatalf("register %s: %v", p, err)
		}
	}
	if err := c.post(players[0], "/api/tournaments/"+t.ID+"/start", nil, nil); err != nil {
		log.Fatalf("start: %v", err)
	}

	// Round 1: both matches settle by agreement, first seat wins.
	for i, m := range c.openMatches(t.ID, 1) {
		p1, p2 := m.Player1, m.Player2
		for _, p := range []string{p1, p2} {
			if err := c.post(p, "/api/matches/"+m.ID+"/join", map[string]any{"payment": cfg.EntryFee}, nil); err != nil {
				log.Fatalf("join %s: %v", p, err)
			}
		}
		if i == 0 {
			// Two-step path: commit the hash, then reveal the secret.
			for _, p := range []string{p1, p2} {
				secret := "r1-" + p
				err := c.post(p, "/api/matches/"+m.ID+"/commit", map[string]any{
					"commitment": match.Commitment(secret),
					"payment":    c.requiredStake(p),
				}, nil)
				if err != nil {
					log.Fatalf("commit %s: %v", p, err)
				}
			}
			for _, p := range []string{p1, p2} {
				err := c.post(p, "/api/matches/"+m.ID+"/reveal", map[string]any{
					"secret":      "r1-" + p,
					"claimed_win": p == p1,
				}, nil)
				if err != nil {
					log.Fatalf("reveal %s: %v", p, err)
				}
			}
		} else {
			for _, p := range []string{p1, p2} {
				err := c.post(p, "/api/matches/"+m.ID+"/commit-reveal", map[string]any{
					"secret":      "r1-" + p,
					"claimed_win": p == p1,
					"payment":     c.requiredStake(p),
				}, nil)
				if err != nil {
					log.Fatalf("commit-reveal %s: %v", p, err)
				}
			}
		}
		log.Printf("round 1 match %s settled, winner %s", m.ID, p1)
	}

	// Final: both claim the win, jurors break the tie for seat 1.
	finals := c.openMatches(t.ID, 2)
	if len(finals) != 1 {
		log.Fatalf("expected one final, got %d", len(finals))
	}
	final := finals[0]
	for _, p := range final.players() {
		if err := c.post(p, "/api/matches/"+final.ID+"/join", map[string]any{"payment": cfg.EntryFee}, nil); err != nil {
			log.Fatalf("join final %s: %v", p, err)
		}
		err := c.post(p, "/api/matches/"+final.ID+"/commit-reveal", map[string]any{
			"secret":      "final-" + p,
			"claimed_win": true,
			"payment":     c.requiredStake(p),
		}, nil)
		if err != nil {
			log.Fatalf("commit-reveal final %s: %v", p, err)
		}
	}
	var snap matchView
	if err := c.get("/api/matches/"+final.ID, &snap); err != nil {
		log.Fatalf("final state: %v", err)
	}
	log.Printf("final %s status %s", final.ID, snap.Status)

	for _, j := range jurors {
		err := c.post(j, "/api/matches/"+final.ID+"/jury-vote", map[string]any{
			"choice":  1,
			"payment": snap.JuryCollateral,
		}, nil)
		if err != nil {
			log.Fatalf("jury vote %s: %v", j, err)
		}
	}

	var done struct {
		Status   string `json:"status"`
		Champion string `json:"champion"`
	}
	if err := c.get("/api/tournaments/"+t.ID, &done); err != nil {
		log.Fatalf("tournament state: %v", err)
	}
	log.Printf("tournament %s: status %s, champion %s", t.ID, done.Status, done.Champion)
}
