// Command bruteforcer races every car of a Graph Racers match through the
// REST API, restarting until someone wins or the attempts run out.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/game/service"
	"github.com/wricardo/mcp-training/graphracers/logging"
)

// Options controls one run of the bot
type Options struct {
	Match       service.MatchOptions
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
}

// Result summarizes a run
type Result struct {
	SessionID string
	Attempts  int
	Moves     int
	Winner    int
	Crashes   int
}

// Won reports whether a car finished the race
func (r Result) Won() bool { return r.Winner >= 0 }

var errNoTargets = errors.New("no targets to choose from")

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "race all cars of a match with the distance-field autopilot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "track", Usage: "track ID (server default if empty)"},
			&cli.IntFlag{Name: "players", Value: 1, Usage: "number of cars"},
			&cli.IntFlag{Name: "damage-max", Usage: "damage that eliminates a car"},
			&cli.IntFlag{Name: "laps", Usage: "laps to win"},
			&cli.IntFlag{Name: "max-moves", Value: 2000, Usage: "maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 10, Usage: "maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "v", Usage: "log every move"},
		},
		Action: action,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	level := "info"
	if cmd.Bool("v") {
		level = "debug"
	}
	logger, err := logging.New(level, "auto", os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := Options{
		Match: service.MatchOptions{
			Track:     cmd.String("track"),
			Players:   cmd.Int("players"),
			DamageMax: cmd.Int("damage-max"),
			Laps:      cmd.Int("laps"),
		},
		MaxMoves:    cmd.Int("max-moves"),
		MaxAttempts: cmd.Int("max-attempts"),
		Delay:       cmd.Duration("delay"),
	}

	logger.Info().Str("url", cmd.String("url")).Msg("connecting to game server")
	result, err := run(ctx, NewClient(cmd.String("url")), opts, logger)
	if err != nil {
		return err
	}
	if !result.Won() {
		return fmt.Errorf("no winner after %d attempts", result.Attempts)
	}
	return nil
}

// run plays up to MaxAttempts matches on one session. The session is
// deleted when the run ends.
func run(ctx context.Context, client *Client, opts Options, logger zerolog.Logger) (Result, error) {
	result := Result{Winner: -1}

	info, err := client.CreateMatch(ctx, opts.Match)
	if err != nil {
		return result, fmt.Errorf("create match: %w", err)
	}
	defer client.Close(context.Background())
	result.SessionID = info.ID

	track, err := client.Track(ctx, info.TrackID)
	if err != nil {
		return result, fmt.Errorf("load track: %w", err)
	}
	strategy, err := NewStrategy(track)
	if err != nil {
		return result, fmt.Errorf("build strategy: %w", err)
	}

	logger.Info().
		Str("session", info.ID).
		Str("track", info.TrackName).
		Int("players", info.Settings.Players).
		Int("laps", info.Settings.Laps).
		Msg("match created")

	state := info.GameState
	for result.Attempts < opts.MaxAttempts {
		result.Attempts++
		if result.Attempts > 1 {
			if state, err = client.Restart(ctx); err != nil {
				return result, fmt.Errorf("restart: %w", err)
			}
		}

		moves, crashes, err := race(ctx, client, strategy, state, opts, logger)
		result.Moves += moves
		result.Crashes += crashes
		if err != nil && !errors.Is(err, errNoTargets) {
			return result, err
		}

		final, err := client.State(ctx)
		if err != nil {
			return result, err
		}
		logger.Info().
			Int("attempt", result.Attempts).
			Int("moves", moves).
			Int("crashes", crashes).
			Str("state", string(final.State)).
			Int("turn", final.Turn).
			Msg("attempt finished")

		if final.State == engine.EndGame && final.Winner >= 0 {
			result.Winner = final.Winner
			logger.Info().
				Int("winner", final.Winner+1).
				Int("attempt", result.Attempts).
				Msg("race won")
			return result, nil
		}
	}

	logger.Warn().Int("attempts", result.Attempts).Msg("no winner")
	return result, nil
}

// race plays one match until it ends or the move budget is spent
func race(ctx context.Context, client *Client, strategy *Strategy, state *engine.GameState, opts Options, logger zerolog.Logger) (moves, crashes int, err error) {
	for state != nil && state.State == engine.InGame && moves < opts.MaxMoves {
		if err := ctx.Err(); err != nil {
			return moves, crashes, err
		}

		target, ok := strategy.Choose(state)
		if !ok {
			return moves, crashes, errNoTargets
		}

		result, err := client.Move(ctx, target)
		if err != nil {
			return moves, crashes, fmt.Errorf("move: %w", err)
		}
		moves++
		if result.Kind == engine.EventCrash || result.Kind == engine.EventSevereCrash {
			crashes++
		}

		logger.Debug().
			Int("player", result.Player+1).
			Str("kind", string(result.Kind)).
			Int("x", result.To.X).
			Int("y", result.To.Y).
			Float64("speed", result.Speed).
			Msg("move")

		state = result.GameState
		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return moves, crashes, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return moves, crashes, nil
}
