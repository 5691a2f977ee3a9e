package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/game/service"
	"github.com/wricardo/mcp-training/graphracers/transport/mcp"
)

const playHelp = `Commands:
  x y      move the active car to (x,y), also accepts x,y
  t N      move to the N-th listed target
  r        restart the match
  h        show this help
  q        quit`

// runPlay runs one hot-seat match on a reader/writer pair until the input
// ends or the players quit
func runPlay(ctx context.Context, gameService service.GameService, opts service.MatchOptions, in io.Reader, out io.Writer) error {
	info, err := gameService.CreateMatch(ctx, opts)
	if err != nil {
		return err
	}
	defer gameService.DeleteSession(context.Background(), info.ID)

	fmt.Fprintf(out, "%s | %d players | damage %d | laps %d\n%s\n\n",
		info.TrackName, info.Settings.Players, info.Settings.DamageMax, info.Settings.Laps, playHelp)
	fmt.Fprintln(out, mcp.FormatGameState(info.GameState))

	state := info.GameState
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, prompt(state))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		cmd, target, err := parseCommand(scanner.Text(), state)
		if err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
			continue
		}

		switch cmd {
		case "":
			continue
		case "q":
			return nil
		case "h":
			fmt.Fprintln(out, playHelp)
		case "r":
			if state, err = gameService.Restart(ctx, info.ID); err != nil {
				return err
			}
			fmt.Fprintln(out, mcp.FormatGameState(state))
		case "move":
			result, err := gameService.SubmitMove(ctx, info.ID, target)
			switch {
			case errors.Is(err, engine.ErrIllegalMove), errors.Is(err, engine.ErrMatchNotActive):
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			case err != nil:
				return err
			}
			state = result.GameState
			fmt.Fprintln(out, mcp.FormatMoveResult(result))
		}
	}
}

func prompt(state *engine.GameState) string {
	if state == nil || state.State != engine.InGame {
		return "r to restart, q to quit > "
	}
	return fmt.Sprintf("P%d move > ", state.ActivePlayer+1)
}

// parseCommand turns one input line into a command. Moves resolve to a
// position, either given directly or picked from the listed targets.
func parseCommand(line string, state *engine.GameState) (string, engine.Position, error) {
	fields := strings.Fields(strings.NewReplacer(",", " ", "(", " ", ")", " ").Replace(strings.ToLower(line)))
	if len(fields) == 0 {
		return "", engine.Position{}, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return "q", engine.Position{}, nil
	case "r", "restart":
		return "r", engine.Position{}, nil
	case "h", "help", "?":
		return "h", engine.Position{}, nil
	case "t":
		if len(fields) != 2 {
			return "", engine.Position{}, errors.New("usage: t N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || state == nil || n < 1 || n > len(state.Targets) {
			return "", engine.Position{}, fmt.Errorf("no target %q", fields[1])
		}
		c := state.Targets[n-1]
		return "move", engine.Position{X: c.X, Y: c.Y}, nil
	}

	if len(fields) != 2 {
		return "", engine.Position{}, fmt.Errorf("unknown command %q, h for help", line)
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return "", engine.Position{}, fmt.Errorf("unknown command %q, h for help", line)
	}
	return "move", engine.Position{X: x, Y: y}, nil
}
