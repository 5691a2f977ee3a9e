package engine

// beginTurn paints targets for the active player. Players with nothing to
// choose are skipped automatically, which may chain through several seats or
// end the match.
func (e *GameEngine) beginTurn(events *[]Event) {
	for e.state == InGame {
		p := e.players[e.active]
		e.eval = Evaluate(e.track, p.prev, p.pos)
		if e.eval.Choices() > 0 {
			e.logger.Debug("targets",
				"player", p.index+1,
				"targets", len(e.eval.Targets),
				"crashes", len(e.eval.Crashes),
				"severe", len(e.eval.Severe))
			return
		}

		severe := len(e.eval.Severe) > 0
		ClearTargets(e.track)
		e.eval = nil

		stop := p.pos
		p.prev = &stop
		kind, damage, msg := EventNoLegalMoves, 1, e.messages.NoLegalMoves
		if severe {
			kind, damage, msg = EventSevereCrash, 2, e.messages.SevereCrash
		}
		e.emit(events, kind, p.index, msg, &stop)
		e.logger.Info("turn skipped", "player", p.index+1, "reason", string(kind), "damage", damage)

		e.addDamage(p, damage, events)
		e.record(p, kind, stop)
		if e.state == InGame {
			e.advanceTurn(events)
		}
	}
}

// advanceTurn hands the turn to the next player still in the race. The search
// is bounded by the player count; coming back around to the starting seat
// without finding anyone ends the match with no winner.
func (e *GameEngine) advanceTurn(events *[]Event) {
	n := len(e.players)
	for i := 0; i < n; i++ {
		e.active++
		if e.active >= n {
			e.active = 0
			e.turn++
		}
		if !e.players[e.active].eliminated {
			e.emit(events, EventTurn, e.active, "", nil)
			return
		}
	}

	e.emit(events, EventAllEliminated, -1, e.messages.AllEliminated, nil)
	e.logger.Info("all players eliminated", "turn", e.turn)
	e.end(-1)
}

// addDamage applies a penalty and eliminates the player at the limit. Returns
// true when the player was eliminated by this call.
func (e *GameEngine) addDamage(p *player, amount int, events *[]Event) bool {
	if p.eliminated {
		return false
	}
	p.damage += amount
	if p.damage < e.settings.DamageMax {
		return false
	}

	p.eliminated = true
	e.track.ForEach(p.pos, func(c *Cell) {
		if c.Type == CarType(p.index) {
			c.Type = c.BaseType
		}
	})
	pos := p.pos
	e.emit(events, EventEliminated, p.index, e.messages.Eliminated, &pos)
	e.logger.Info("player eliminated", "player", p.index+1, "damage", p.damage)
	return true
}

func (e *GameEngine) finish(winner int, events *[]Event) {
	pos := e.players[winner].pos
	e.emit(events, EventWin, winner, e.messages.Win, &pos)
	e.logger.Info("player won", "player", winner+1, "turn", e.turn)
	e.end(winner)
}

func (e *GameEngine) end(winner int) {
	e.winner = winner
	e.state = EndGame
	ClearTargets(e.track)
	e.eval = nil
}
