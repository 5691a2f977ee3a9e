package engine

// SubmitMove resolves the active player's move to target. The cell must carry a
// target marker; anything else is rejected with *IllegalMoveError and the match
// is left as it was. On success the whole turn is resolved, including forced
// skips of the players that follow.
func (e *GameEngine) SubmitMove(target Position) (*MoveOutcome, error) {
	if e.state != InGame {
		return nil, ErrMatchNotActive
	}

	cell, ok := e.track.At(target)
	if !ok {
		return nil, &IllegalMoveError{Position: target}
	}
	if !cell.Type.IsTarget() {
		return nil, &IllegalMoveError{Position: target, Type: cell.Type}
	}

	p := e.players[e.active]
	kind := cell.Type
	var recovery Position
	if e.eval != nil {
		recovery = e.eval.Recovery[target]
	}
	from := p.pos

	ClearTargets(e.track)
	e.eval = nil

	var events []Event
	outcome := &MoveOutcome{Player: p.index, From: from}

	switch kind {
	case Target:
		outcome.Kind = EventMove
		e.emit(&events, EventMove, p.index, "", &target)
		e.relocate(p, target, &events)

	case CrashTarget, TrackCrashTarget:
		outcome.Kind = EventCrash
		e.emit(&events, EventCrash, p.index, e.messages.Crash, &target)
		e.logger.Info("crash", "player", p.index+1, "at", target, "recovery", recovery)
		if !e.addDamage(p, 1, &events) {
			e.relocate(p, recovery, &events)
			stop := p.pos
			p.prev = &stop
		}

	case SevereCrashTarget:
		outcome.Kind = EventSevereCrash
		e.emit(&events, EventSevereCrash, p.index, e.messages.SevereCrash, &target)
		e.logger.Info("severe crash", "player", p.index+1, "at", target)
		stop := p.pos
		p.prev = &stop
		e.addDamage(p, 2, &events)
	}

	outcome.To = p.pos
	outcome.Speed = Speed(p.prev, p.pos)
	e.record(p, outcome.Kind, from)

	if e.state == InGame {
		e.advanceTurn(&events)
		e.beginTurn(&events)
	}

	outcome.Events = events
	return outcome, nil
}

// relocate moves a car, appends to its trajectory and runs the lap tracker on
// the path it drove
func (e *GameEngine) relocate(p *player, to Position, events *[]Event) {
	from := p.pos
	fromCell, _ := e.track.At(from)
	toCell, _ := e.track.At(to)

	fromCell.Type = fromCell.BaseType
	toCell.Type = CarType(p.index)

	prev := from
	p.prev = &prev
	p.pos = to
	p.trajectory = append(p.trajectory, to)

	path := Trajectory(e.track, from, to)
	found := DetectCheckpoint(e.track, path)
	fromCheckpoint := fromCell.BaseType.CheckpointIndex() > 0
	fromFinish := fromCell.BaseType == StartStop

	res := advanceLap(&p.progress, found, fromCheckpoint, fromFinish, e.track.Checkpoints(), e.settings.Laps)
	e.logger.Debug("moved",
		"player", p.index+1,
		"from", from,
		"to", to,
		"path", len(path),
		"found", found,
		"lap", p.progress.Lap,
		"checkpoint", p.progress.Checkpoint)

	switch res {
	case LapCheckpoint:
		e.emit(events, EventCheckpoint, p.index, e.messages.Checkpoint, &to)
	case LapMissedCheckpoint:
		e.emit(events, EventMissedCheckpoint, p.index, e.messages.MissedCheckpoint, &to)
	case LapWrongWay:
		e.emit(events, EventWrongWay, p.index, e.messages.WrongWay, &to)
	case LapStarted:
		e.emit(events, EventLapStarted, p.index, e.messages.LapStarted, &to)
	case LapVoided:
		e.emit(events, EventLapVoided, p.index, e.messages.LapVoided, &to)
	case LapCompleted:
		e.emit(events, EventLapCompleted, p.index, e.messages.LapCompleted, &to)
		e.logger.Info("lap completed", "player", p.index+1, "lap", p.progress.Lap)
	case LapWon:
		e.emit(events, EventLapCompleted, p.index, e.messages.LapCompleted, &to)
		e.finish(p.index, events)
	}
}

func (e *GameEngine) emit(events *[]Event, typ EventType, playerIndex int, msg string, pos *Position) {
	ev := Event{Type: typ, Player: playerIndex, Message: msg}
	if pos != nil {
		p := *pos
		ev.Position = &p
	}
	*events = append(*events, ev)
	if msg != "" {
		e.message = msg
	}
}

func (e *GameEngine) record(p *player, kind EventType, from Position) {
	e.history = append(e.history, MoveHistoryEntry{
		MoveNumber: len(e.history) + 1,
		Turn:       e.turn,
		Player:     p.index,
		Kind:       kind,
		From:       from,
		To:         p.pos,
		Speed:      Speed(p.prev, p.pos),
		Damage:     p.damage,
		Lap:        p.progress.Lap,
		Checkpoint: p.progress.Checkpoint,
		Timestamp:  e.now().Unix(),
	})
}
