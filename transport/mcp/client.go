package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/game/service"
)

const (
	serverName    = "Graph Racers"
	serverVersion = "1.0.0"
)

// Client is a thin MCP server that proxies every tool call to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Graph Racers - MCP Interface

Turn-based vector racing on a 40x40 grid. Every tool call is forwarded to the REST API.

AVAILABLE TOOLS:
- create_match: Start a match on a track (players, damage_max, laps)
- get_state: Current snapshot with the grid, players and targets
- get_targets: Cells the active player may move to
- submit_move: Move the active player to one of the targets
- restart_match: Restart with the same track and settings
- move_history: Past moves, paginated
- list_tracks: Available tracks
- list_sessions: Running matches
- describe_cell: What a single grid cell is
- game_instructions: Full rules

NOTE: submit_move takes an 'intent' parameter. Explain the line you are driving.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by create_match",
	}
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_match",
		Description: "Create a new match. All parameters are optional.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"track": map[string]interface{}{
					"type":        "string",
					"description": "Track ID from list_tracks (default track if omitted)",
				},
				"players": map[string]interface{}{
					"type":        "integer",
					"description": "Number of cars, 1-4 (default 2)",
				},
				"damage_max": map[string]interface{}{
					"type":        "integer",
					"description": "Damage a car survives before elimination, 1-9 (default 3)",
				},
				"laps": map[string]interface{}{
					"type":        "integer",
					"description": "Laps to win, 1-9 (default 1)",
				},
			},
		},
	}, c.handleCreateMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all running matches",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current match snapshot: grid, players, active player and targets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_targets",
		Description: "List the cells the active player may move to, with the outcome of each",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetTargets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_move",
		Description: "Move the active player to a target cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Target column (0-39)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Target row (0-39)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the line you are driving",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSubmitMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_match",
		Description: "Restart the match on the same track with the same settings",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a match",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_tracks",
		Description: "List available tracks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListTracks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one grid cell: terrain, overlay and whether it can be selected",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Graph Racers",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP answers a single JSON-RPC message posted to the /mcp endpoint
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)
	if response == nil {
		// notifications have no reply
		w.WriteHeader(http.StatusAccepted)
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument. Fractions are rejected.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// optionalInt reads an integer argument that may be omitted. A present
// argument of any other type is an error.
func optionalInt(args map[string]interface{}, key string) (int, bool, error) {
	if v, present := args[key]; !present || v == nil {
		return 0, false, nil
	}
	n, ok := intArg(args, key)
	if !ok {
		return 0, false, fmt.Errorf("%s must be an integer", key)
	}
	return n, true, nil
}

// optionalString is optionalInt for strings
func optionalString(args map[string]interface{}, key string) (string, error) {
	v, present := args[key]
	if !present || v == nil {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return str, nil
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	id, err := optionalString(args, "session_id")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var opts service.MatchOptions
	var err error
	if opts.Track, err = optionalString(args, "track"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, field := range []struct {
		key string
		dst *int
	}{
		{"players", &opts.Players},
		{"damage_max", &opts.DamageMax},
		{"laps", &opts.Laps},
	} {
		if *field.dst, _, err = optionalInt(args, field.key); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", opts, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		state := "?"
		if s.GameState != nil {
			state = fmt.Sprintf("%s, turn %d", s.GameState.State, s.GameState.Turn)
		}
		fmt.Fprintf(&b, "- %s (Track: %s, %d players, %s, Created: %s)\n",
			s.ID, s.TrackID, s.Settings.Players, state, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(FormatGameState(&state)), nil
}

func (c *Client) handleGetTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/targets")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Targets []engine.Cell `json:"targets"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTargets(response.Targets)), nil
}

func (c *Client) handleSubmitMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}


	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"x": x, "y": y}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(FormatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/restart")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, FormatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	for _, key := range []string{"page", "limit"} {
		n, ok, err := optionalInt(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			params.Set(key, fmt.Sprint(n))
		}
	}
	order, err := optionalString(args, "order")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if order != "" {
		params.Set("order", order)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListTracks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var tracks []service.TrackInfo
	if err := c.apiCall(ctx, "GET", "/api/tracks", nil, &tracks); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Tracks:\n\n")
	for _, t := range tracks {
		def := ""
		if t.Default {
			def = " (default)"
		}
		fmt.Fprintf(&b, "• %s%s - %s\n  %s\n  Checkpoints: %d\n\n", t.TrackID, def, t.Name, t.Description, t.Checkpoints)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if y < 0 || y >= len(state.Grid) || x < 0 || x >= len(state.Grid[y]) {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid is %dx%d (0-%d)",
			x, y, engine.Cols, engine.Rows, engine.Cols-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, x, y)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🏁 Graph Racers - Complete Instructions

GAME OBJECTIVE:
Drive your car around the track, pass every checkpoint in order, cross the start/finish line and complete the lap count before the others do.

MOVEMENT:
• Each car has a velocity: the vector of its last move.
• On your turn you may keep that velocity or change it by one cell in x and/or y.
• That gives up to nine candidate cells around position + velocity.
• Speed is the length of the last move.

TARGETS (get_targets):
• T - clean move, the whole line stays on track
• @ - the destination is on track but the line leaves it; you crash on the way
• ! - the destination is off track; you crash
• * - severe crash, the line leaves the track straight away; two damage
A crash leaves the car on the last track cell of the line, at speed zero.
Cells occupied by other cars are never targets.

DAMAGE:
• A crash costs one damage point (severe crash two) and stops the car.
• Reaching damage_max eliminates the car.
• When no candidate exists, the turn is skipped and the car takes one damage.

LAPS:
• Checkpoints (q, w, e) must be crossed in order.
• Crossing S after all checkpoints completes a lap.
• Crossing it early voids the lap progress.

GRID LEGEND:
• X - off track
• . - track
• S - start/finish line
• q w e - checkpoints 1 2 3
• 1 2 3 4 - cars

VICTORY CONDITIONS:
• First car to complete the lap count wins.
• If every car is eliminated the match ends with no winner.

TOOLS FLOW:
1. list_tracks, then create_match
2. get_state to see the grid and whose turn it is
3. get_targets, pick one, submit_move
4. repeat until the match ends; restart_match to play again

Good luck on the track! 🏎️`

// Formatting helpers

func playerLabel(index int) string {
	return fmt.Sprintf("P%d", index+1)
}

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nTrack: %s (%s)\nPlayers: %d | Damage max: %d | Laps: %d\nCreated: %s\n\n%s",
		info.ID, info.TrackName, info.TrackID,
		info.Settings.Players, info.Settings.DamageMax, info.Settings.Laps,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		FormatGameState(info.GameState))
}

// FormatGameState renders a snapshot as text: player lines, the grid with a
// coordinate ruler, and the targets or the result of a finished match.
func FormatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Track: %s | State: %s | Turn: %d\n", state.TrackName, state.State, state.Turn)

	for _, p := range state.Players {
		marker := "  "
		if p.Index == state.ActivePlayer && state.State == engine.InGame {
			marker = "▶ "
		}
		status := ""
		if p.Eliminated {
			status = " ELIMINATED"
		}
		fmt.Fprintf(&b, "%s%s car %c at (%d,%d) speed %.2f damage %d/%d laps %d/%d checkpoint %d/%d%s\n",
			marker, playerLabel(p.Index), p.Car.Code(), p.Position.X, p.Position.Y, p.Speed,
			p.Damage, state.Settings.DamageMax, p.Lap, state.Settings.Laps, p.Checkpoint, state.Checkpoints, status)
	}
	b.WriteString("\n")

	b.WriteString(formatGrid(state.Grid))

	if state.State == engine.EndGame {
		if state.Winner >= 0 {
			fmt.Fprintf(&b, "\n🏆 WINNER: %s", playerLabel(state.Winner))
		} else {
			b.WriteString("\n💥 ALL CARS ELIMINATED")
		}
	} else if len(state.Targets) > 0 {
		b.WriteString("\n" + formatTargets(state.Targets))
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

// formatGrid prints rows with a column ruler so coordinates can be read off
func formatGrid(grid []string) string {
	if len(grid) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("    ")
	for x := range grid[0] {
		b.WriteByte(byte('0' + x/10))
	}
	b.WriteString("\n    ")
	for x := range grid[0] {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteString("\n")
	for y, row := range grid {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}
	return b.String()
}

func targetOutcome(t engine.CellType) string {
	switch t {
	case engine.Target:
		return "clean"
	case engine.TrackCrashTarget:
		return "crash on the way"
	case engine.CrashTarget:
		return "crash"
	case engine.SevereCrashTarget:
		return "severe crash"
	}
	return string(t)
}

func formatTargets(targets []engine.Cell) string {
	if len(targets) == 0 {
		return "No targets available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Targets (%d):\n", len(targets))
	for i, t := range targets {
		fmt.Fprintf(&b, "  %2d. (%d,%d) %c %s\n", i+1, t.X, t.Y, t.Type.Code(), targetOutcome(t.Type))
	}
	return b.String()
}

// FormatMoveResult renders an accepted move with its events and the new state
func FormatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move accepted\n")
	} else {
		b.WriteString("✗ Move rejected\n")
	}

	fmt.Fprintf(&b, "%s %s (%d,%d)->(%d,%d) speed %.2f\n",
		playerLabel(result.Player), result.Kind, result.From.X, result.From.Y, result.To.X, result.To.Y, result.Speed)

	for _, e := range result.Events {
		if e.Message != "" {
			fmt.Fprintf(&b, "  • [%s] %s: %s\n", e.Type, playerLabel(e.Player), e.Message)
		} else {
			fmt.Fprintf(&b, "  • [%s] %s\n", e.Type, playerLabel(e.Player))
		}
	}

	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}

	if result.GameState != nil {
		b.WriteString("\n" + FormatGameState(result.GameState))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, m := range history.Moves {
		fmt.Fprintf(&b, "#%d turn %d %s %s (%d,%d)->(%d,%d) speed %.2f damage %d lap %d cp %d\n",
			m.MoveNumber, m.Turn, playerLabel(m.Player), m.Kind,
			m.From.X, m.From.Y, m.To.X, m.To.Y, m.Speed, m.Damage, m.Lap, m.Checkpoint)
	}

	if history.HasNext {
		b.WriteString("\n(more on the next page)")
	}
	return b.String()
}

var cellNames = map[byte]string{
	'X': "off track",
	'.': "track",
	'S': "start/finish line",
	'q': "checkpoint 1",
	'w': "checkpoint 2",
	'e': "checkpoint 3",
	'T': "target (clean move)",
	'@': "target (line leaves the track)",
	'!': "target (crash)",
	'*': "target (severe crash)",
	'1': "car of P1",
	'2': "car of P2",
	'3': "car of P3",
	'4': "car of P4",
}

func describeCell(state *engine.GameState, x, y int) string {
	code := state.Grid[y][x]
	name, ok := cellNames[code]
	if !ok {
		name = "unknown"
	}

	selectable := strings.IndexByte("T@!*", code) >= 0

	var labels []string
	for _, l := range state.Labels {
		if l.X == x && l.Y == y {
			labels = append(labels, l.Text)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n", x, y)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Code: %c\nType: %s\nSelectable: %v\n", code, name, selectable)
	if len(labels) > 0 {
		fmt.Fprintf(&b, "Label: %s\n", strings.Join(labels, " "))
	}
	return b.String()
}
