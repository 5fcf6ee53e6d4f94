package game

import (
	"context"
	"strings"
	"time"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/metrics"
	"github.com/sketchaa/sketchaa/internal/infrastructure/profanity"
	"github.com/sketchaa/sketchaa/internal/protocol"
)

type Config struct {
	DrawingTime   time.Duration
	JudgingTime   time.Duration
	TickInterval  time.Duration
	MaxRooms      int
	RoomIdleTTL   time.Duration
	SweepInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		DrawingTime:   60 * time.Second,
		JudgingTime:   60 * time.Second,
		TickInterval:  time.Second,
		MaxRooms:      1000,
		RoomIdleTTL:   30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Coordinator owns every room mutation. Each operation resolves the
// room through the registry, takes that room's lock, applies the
// change, and fans out the resulting events before releasing it.
// Fan-out never blocks: connections buffer and drop, so holding the
// lock across a broadcast cannot stall the room.
type Coordinator struct {
	cfg      Config
	registry *Registry
	logger   logging.Logger
	scorer   Scorer
	audit    AuditSink
	filter   *profanity.ProfanityFilter
}

func NewCoordinator(cfg Config, registry *Registry, logger logging.Logger, scorer Scorer, audit AuditSink) *Coordinator {
	if scorer == nil {
		scorer = NewAverageScorer()
	}
	if audit == nil {
		audit = NopAuditSink()
	}

	return &Coordinator{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		scorer:   scorer,
		audit:    audit,
		filter:   profanity.NewProfanityFilter(),
	}
}

func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Snapshot returns a point-in-time view of a room for read-only
// consumers such as the REST surface.
func (c *Coordinator) Snapshot(code string) (protocol.RoomStatePayload, error) {
	var snapshot protocol.RoomStatePayload
	err := c.withRoom(code, func(room *Room) error {
		snapshot = roomStatePayload(room.State, time.Now())
		return nil
	})
	return snapshot, err
}

// RunSweeper evicts rooms whose players have all been gone for longer
// than the idle TTL. Blocks until ctx is done.
func (c *Coordinator) RunSweeper(ctx context.Context) {
	if c.cfg.SweepInterval <= 0 || c.cfg.RoomIdleTTL <= 0 {
		return
	}

	ticker := time.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := c.registry.EvictIdle(c.cfg.RoomIdleTTL, time.Now())
			for _, code := range evicted {
				c.logger.Info(logging.Game, logging.RoomLifecycle, "idle room evicted", map[logging.ExtraKey]any{
					logging.RoomCode: code,
				})
				c.audit.Publish(ctx, domain.NewRoomAuditLog(code, domain.EventRoomDeleted, map[string]any{"reason": "idle"}))
			}
			if len(evicted) > 0 {
				metrics.RoomsActive.Set(float64(c.registry.Len()))
			}
		}
	}
}

func (c *Coordinator) CreateRoom(ctx context.Context, conn domain.Conn, req protocol.CreateRoomRequest) {
	code := normalizeCode(req.RoomCode)
	if code == "" {
		generated, err := domain.GenerateRoomCode()
		if err != nil {
			conn.SendEvent(protocol.NewError("", "could not generate a room code"))
			return
		}
		code = generated
	}

	if strings.TrimSpace(req.HostPlayer.ID) == "" || strings.TrimSpace(req.HostPlayer.Name) == "" {
		conn.SendEvent(protocol.NewError(code, domain.ErrInvalidInput.Error()))
		return
	}

	host := &domain.Player{
		ID:        req.HostPlayer.ID,
		Name:      req.HostPlayer.Name,
		Character: req.HostPlayer.Character,
		Conn:      conn,
	}

	room, err := c.registry.Create(domain.NewRoom(code, host, req.SelectedWord, time.Now()))
	if err != nil {
		conn.SendEvent(protocol.NewError(code, err.Error()))
		return
	}
	c.registry.Bind(conn.ConnID(), code)

	room.mu.Lock()
	state := roomStatePayload(room.State, time.Now())
	room.mu.Unlock()

	c.send(conn, &protocol.Event{Type: protocol.RoomCreated, Room: code, Data: state})

	metrics.RoomsActive.Set(float64(c.registry.Len()))
	c.logger.Info(logging.Game, logging.RoomLifecycle, "room created", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.PlayerId: host.ID,
	})
	c.audit.Publish(ctx, domain.NewRoomAuditLog(code, domain.EventRoomCreated, map[string]any{
		"hostId":   host.ID,
		"hostName": host.Name,
	}))
}

func (c *Coordinator) JoinRoom(ctx context.Context, conn domain.Conn, req protocol.JoinRoomRequest) {
	if strings.TrimSpace(req.Player.ID) == "" || strings.TrimSpace(req.Player.Name) == "" {
		conn.SendEvent(protocol.NewError(req.RoomCode, domain.ErrInvalidInput.Error()))
		return
	}

	var isNew bool
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		if room.State.Phase != domain.PhaseLobby {
			return domain.ErrGameAlreadyStarted
		}

		player := &domain.Player{
			ID:        req.Player.ID,
			Name:      req.Player.Name,
			Character: req.Player.Character,
			Conn:      conn,
		}
		isNew = room.State.AddPlayer(player)

		now := time.Now()
		c.send(conn, &protocol.Event{Type: protocol.RoomJoined, Room: room.State.Code, Data: roomStatePayload(room.State, now)})
		c.broadcastLocked(room.State, protocol.NewPlayersUpdated(room.State.Code, playersPayload(room.State)))
		c.broadcastLocked(room.State, protocol.NewWordUpdated(room.State.Code, room.State.Word))
		c.broadcastLocked(room.State, protocol.NewGameStateUpdated(room.State.Code, gameStatePayload(room.State, now)))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}
	c.registry.Bind(conn.ConnID(), req.RoomCode)

	c.logger.Info(logging.Game, logging.RoomLifecycle, "player joined", map[logging.ExtraKey]any{
		logging.RoomCode: req.RoomCode,
		logging.PlayerId: req.Player.ID,
	})
	if isNew {
		c.audit.Publish(ctx, domain.NewRoomAuditLog(normalizeCode(req.RoomCode), domain.EventPlayerJoined, map[string]any{
			"playerId":   req.Player.ID,
			"playerName": req.Player.Name,
		}))
	}
}

func (c *Coordinator) RejoinRoom(ctx context.Context, conn domain.Conn, req protocol.RejoinRoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.Rebind(req.PlayerID, conn)
		if player == nil {
			return domain.ErrPlayerNotFound
		}

		c.send(conn, &protocol.Event{Type: protocol.RoomRejoined, Room: room.State.Code, Data: roomStatePayload(room.State, time.Now())})
		c.broadcastLocked(room.State, protocol.NewPlayersUpdated(room.State.Code, playersPayload(room.State)))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}
	c.registry.Bind(conn.ConnID(), req.RoomCode)

	c.logger.Info(logging.Game, logging.RoomLifecycle, "player rejoined", map[logging.ExtraKey]any{
		logging.RoomCode: req.RoomCode,
		logging.PlayerId: req.PlayerID,
	})
}

func (c *Coordinator) StartGame(ctx context.Context, conn domain.Conn, req protocol.StartGameRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.FindPlayer(req.PlayerID)
		if player == nil || !player.IsHost {
			return domain.ErrNotHost
		}
		if room.State.Phase != domain.PhaseLobby {
			return domain.ErrGameAlreadyStarted
		}

		now := time.Now()
		room.State.Phase = domain.PhaseDrawing
		room.State.StartedAt = now
		room.State.Duration = c.cfg.DrawingTime
		room.State.Submissions.Reset()
		room.State.Scores.Reset()

		c.broadcastLocked(room.State, &protocol.Event{
			Type: protocol.GameStarted,
			Room: room.State.Code,
			Data: protocol.GameStartedPayload{
				StartTime: now.UnixMilli(),
				Duration:  int(c.cfg.DrawingTime.Seconds()),
			},
		})
		c.broadcastLocked(room.State, protocol.NewGameStateUpdated(room.State.Code, gameStatePayload(room.State, now)))

		c.armTimerLocked(room, c.onDrawingExpired)
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}

	metrics.GamesStarted.Inc()
	c.logger.Info(logging.Game, logging.GameFlow, "game started", map[logging.ExtraKey]any{
		logging.RoomCode: req.RoomCode,
		logging.PlayerId: req.PlayerID,
	})
	c.audit.Publish(ctx, domain.NewRoomAuditLog(normalizeCode(req.RoomCode), domain.EventGameStarted, map[string]any{
		"hostId": req.PlayerID,
	}))
}

func (c *Coordinator) ChangeWord(conn domain.Conn, req protocol.ChangeWordRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.FindPlayer(req.PlayerID)
		if player == nil || !player.IsHost {
			return domain.ErrNotHost
		}
		if room.State.Phase != domain.PhaseLobby && room.State.Phase != domain.PhaseDrawing {
			return domain.ErrWrongPhase
		}

		room.State.Word = req.NewWord
		c.broadcastLocked(room.State, protocol.NewWordUpdated(room.State.Code, req.NewWord))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
	}
}

func (c *Coordinator) SendMessage(conn domain.Conn, req protocol.SendMessageRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.FindPlayer(req.PlayerID)
		if player == nil {
			return domain.ErrPlayerNotFound
		}

		text := strings.TrimSpace(req.Message)
		if text == "" {
			return domain.ErrEmptyMessage
		}
		if c.filter.ContainsProfanity(text) {
			return domain.ErrProfaneMessage
		}

		msg := room.State.Chat.Append(player, text, time.Now())
		c.broadcastLocked(room.State, protocol.NewNewMessage(room.State.Code, chatPayload(msg)))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}
	metrics.ChatMessages.Inc()
}

func (c *Coordinator) SubmitDrawing(conn domain.Conn, req protocol.SubmitDrawingRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.FindPlayer(req.PlayerID)
		if player == nil {
			return domain.ErrPlayerNotFound
		}

		room.State.Submissions.Submit(req.PlayerID, req.Image, time.Now())
		c.send(conn, &protocol.Event{Type: protocol.DrawingSubmitted, Room: room.State.Code, Data: protocol.AckPayload{Success: true}})
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}

	c.logger.Debug(logging.Game, logging.GameFlow, "drawing submitted", map[logging.ExtraKey]any{
		logging.RoomCode: req.RoomCode,
		logging.PlayerId: req.PlayerID,
	})
}

func (c *Coordinator) SubmitScore(conn domain.Conn, req protocol.SubmitScoreRequest) {
	outcome := "accepted"
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		if room.State.FindPlayer(req.ScorerID) == nil || room.State.FindPlayer(req.TargetPlayerID) == nil {
			return domain.ErrPlayerNotFound
		}

		totals, err := room.State.Scores.Submit(req.ScorerID, req.TargetPlayerID, req.Score)
		if err != nil {
			return err
		}

		// Ack goes to the scorer only; the room never learns who
		// rated whom.
		c.send(conn, &protocol.Event{
			Type: protocol.ScoreSubmitted,
			Room: room.State.Code,
			Data: protocol.ScoreSubmittedPayload{
				Success:         true,
				TargetPlayerID:  req.TargetPlayerID,
				NewTotalScore:   totals.TotalScore,
				NewTotalVotes:   totals.TotalVotes,
				NewAverageScore: totals.AverageScore,
			},
		})

		if room.State.Scores.Complete(room.State.Players, room.State.Submissions) && room.State.Scores.MarkSignaled() {
			c.broadcastLocked(room.State, protocol.NewVotingComplete(room.State.Code, "All players have finished voting! You can now view the results."))
			if room.State.Phase == domain.PhaseJudging {
				c.finishJudgingLocked(room)
			}
		}
		return nil
	})
	if err != nil {
		outcome = "rejected"
		conn.SendEvent(protocol.NewScoreError(req.RoomCode, err.Error()))
	}
	metrics.ScoresSubmitted.WithLabelValues(outcome).Inc()
}

// RoomDrawings answers a judging client with the current submissions
// and running aggregates, ranked with the same strategy as the final
// results.
func (c *Coordinator) RoomDrawings(conn domain.Conn, req protocol.RoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		results := c.scorer.Rank(room.State.Players, room.State.Submissions, room.State.Scores)
		c.send(conn, &protocol.Event{
			Type: protocol.RoomDrawings,
			Room: room.State.Code,
			Data: protocol.RoomDrawingsPayload{
				RoomCode:     room.State.Code,
				SelectedWord: room.State.Word,
				Results:      resultPayloads(results),
			},
		})
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
	}
}

func (c *Coordinator) ScoringHistory(conn domain.Conn, req protocol.PlayerRoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		scored := room.State.Scores.ScoredBy(req.PlayerID)
		c.send(conn, &protocol.Event{
			Type: protocol.ScoringHistory,
			Room: room.State.Code,
			Data: protocol.ScoringHistoryPayload{ScoredDrawings: scored},
		})
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
	}
}

func (c *Coordinator) GameResults(conn domain.Conn, req protocol.RoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		results := c.scorer.Rank(room.State.Players, room.State.Submissions, room.State.Scores)
		c.send(conn, protocol.NewGameResults(room.State.Code, resultPayloads(results)))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
	}
}

func (c *Coordinator) RoomInfo(conn domain.Conn, req protocol.RoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		c.send(conn, &protocol.Event{Type: protocol.RoomInfo, Room: room.State.Code, Data: roomStatePayload(room.State, time.Now())})
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
	}
}

// ResetRound re-arms a finished room for another round without
// touching membership.
func (c *Coordinator) ResetRound(conn domain.Conn, req protocol.PlayerRoomRequest) {
	err := c.withRoom(req.RoomCode, func(room *Room) error {
		player := room.State.FindPlayer(req.PlayerID)
		if player == nil || !player.IsHost {
			return domain.ErrNotHost
		}
		if room.State.Phase != domain.PhaseResults {
			return domain.ErrWrongPhase
		}

		room.stopTimerLocked()
		room.State.ResetRound()
		c.broadcastLocked(room.State, protocol.NewGameStateUpdated(room.State.Code, gameStatePayload(room.State, time.Now())))
		return nil
	})
	if err != nil {
		conn.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
		return
	}

	c.logger.Info(logging.Game, logging.GameFlow, "round reset", map[logging.ExtraKey]any{
		logging.RoomCode: req.RoomCode,
		logging.PlayerId: req.PlayerID,
	})
}

// Disconnect removes the player owning the closed connection. This is
// the only path that removes a player; an empty room is torn down
// with its timer.
func (c *Coordinator) Disconnect(ctx context.Context, conn domain.Conn) {
	room, ok := c.registry.RoomForConn(conn.ConnID())
	c.registry.Unbind(conn.ConnID())
	if !ok {
		return
	}

	var (
		code        string
		removed     *domain.Player
		hostChanged bool
		emptied     bool
	)

	room.mu.Lock()
	if room.deleted {
		room.mu.Unlock()
		return
	}
	code = room.State.Code

	player := room.State.FindPlayerByConn(conn.ConnID())
	if player == nil {
		room.mu.Unlock()
		return
	}

	removed, hostChanged = room.State.RemovePlayer(player.ID)
	if room.State.Empty() {
		emptied = true
		room.deleted = true
		room.stopTimerLocked()
	} else {
		c.broadcastLocked(room.State, protocol.NewPlayersUpdated(code, playersPayload(room.State)))
		if hostChanged {
			c.broadcastLocked(room.State, &protocol.Event{Type: protocol.HostUpdated, Room: code, Data: playersPayload(room.State)})
		}
	}
	room.mu.Unlock()

	c.logger.Info(logging.Game, logging.RoomLifecycle, "player disconnected", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.PlayerId: removed.ID,
	})
	c.audit.Publish(ctx, domain.NewRoomAuditLog(code, domain.EventPlayerLeft, map[string]any{
		"playerId":   removed.ID,
		"playerName": removed.Name,
	}))
	if hostChanged {
		c.audit.Publish(ctx, domain.NewRoomAuditLog(code, domain.EventHostChanged, nil))
	}

	if emptied {
		c.registry.Delete(code)
		metrics.RoomsActive.Set(float64(c.registry.Len()))
		c.logger.Info(logging.Game, logging.RoomLifecycle, "room deleted", map[logging.ExtraKey]any{
			logging.RoomCode: code,
		})
		c.audit.Publish(ctx, domain.NewRoomAuditLog(code, domain.EventRoomDeleted, map[string]any{"reason": "empty"}))
	}
}

func (c *Coordinator) withRoom(code string, fn func(room *Room) error) error {
	room, err := c.registry.Get(code)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.deleted {
		return domain.ErrRoomNotFound
	}
	return fn(room)
}

// armTimerLocked replaces the room's timer with a fresh one for the
// phase just entered. Caller holds the room lock; the tick and expiry
// closures take it themselves.
func (c *Coordinator) armTimerLocked(room *Room, onExpire func(*Room)) {
	room.stopTimerLocked()

	code := room.State.Code
	room.timer = startPhaseTimer(c.cfg.TickInterval,
		func() int {
			room.mu.Lock()
			defer room.mu.Unlock()
			if room.deleted {
				return 0
			}
			return room.State.Remaining(time.Now())
		},
		func(remaining int) {
			room.mu.Lock()
			defer room.mu.Unlock()
			if room.deleted {
				return
			}
			c.broadcastLocked(room.State, protocol.NewTimeUpdate(code, remaining))
		},
		func() {
			onExpire(room)
		},
	)
}

func (room *Room) stopTimerLocked() {
	if room.timer != nil {
		room.timer.Stop()
		room.timer = nil
	}
}

func (c *Coordinator) onDrawingExpired(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.deleted || room.State.Phase != domain.PhaseDrawing {
		return
	}

	code := room.State.Code

	// Advisory flush: ask everyone who has not submitted yet to send
	// whatever they have. The transition does not wait for them.
	for _, p := range room.State.Players {
		if p.Connected() && !room.State.Submissions.Has(p.ID) {
			p.Conn.SendEvent(&protocol.Event{
				Type: protocol.DrawingPhaseEnded,
				Room: code,
				Data: protocol.PhaseEndedPayload{Message: "Time is up! Submit your drawing now."},
			})
		}
	}

	c.broadcastLocked(room.State, &protocol.Event{Type: protocol.GameEnded, Room: code})

	now := time.Now()
	room.State.Phase = domain.PhaseJudging
	room.State.StartedAt = now
	room.State.Duration = c.cfg.JudgingTime

	c.broadcastLocked(room.State, &protocol.Event{
		Type: protocol.JudgingStarted,
		Room: code,
		Data: protocol.PhaseEndedPayload{Message: "Judging has started.", Duration: int(c.cfg.JudgingTime.Seconds())},
	})
	c.broadcastLocked(room.State, protocol.NewGameStateUpdated(code, gameStatePayload(room.State, now)))

	c.armTimerLocked(room, c.onJudgingExpired)

	c.logger.Info(logging.Game, logging.GameFlow, "drawing phase ended", map[logging.ExtraKey]any{
		logging.RoomCode: code,
	})
}

func (c *Coordinator) onJudgingExpired(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.deleted || room.State.Phase != domain.PhaseJudging {
		return
	}
	c.finishJudgingLocked(room)
}

// finishJudgingLocked moves the room to Results and broadcasts the
// final standing exactly once, whether judging ended on the timer or
// on voting completeness.
func (c *Coordinator) finishJudgingLocked(room *Room) {
	if room.State.Phase != domain.PhaseJudging {
		return
	}

	room.stopTimerLocked()

	now := time.Now()
	room.State.Phase = domain.PhaseResults
	room.State.StartedAt = time.Time{}
	room.State.Duration = 0

	results := c.scorer.Rank(room.State.Players, room.State.Submissions, room.State.Scores)
	c.broadcastLocked(room.State, protocol.NewGameResults(room.State.Code, resultPayloads(results)))
	c.broadcastLocked(room.State, protocol.NewGameStateUpdated(room.State.Code, gameStatePayload(room.State, now)))

	metrics.GamesCompleted.Inc()
	c.logger.Info(logging.Game, logging.GameFlow, "round finished", map[logging.ExtraKey]any{
		logging.RoomCode: room.State.Code,
	})
	c.audit.Publish(context.Background(), domain.NewRoomAuditLog(room.State.Code, domain.EventGameEnded, map[string]any{
		"players": len(room.State.Players),
	}))
}

func (c *Coordinator) broadcastLocked(room *domain.Room, ev *protocol.Event) {
	for _, p := range room.Players {
		if p.Connected() {
			p.Conn.SendEvent(ev)
		}
	}
	metrics.EventsBroadcast.Inc()
}

func (c *Coordinator) send(conn domain.Conn, ev *protocol.Event) {
	conn.SendEvent(ev)
}
