package engine

// CellType is the terrain or overlay tag carried by a grid cell
type CellType string

const (
	OffTrack     CellType = "offtrack"
	TrackSurface CellType = "track"
	StartStop    CellType = "start_stop"
	Checkpoint1  CellType = "checkpoint_1"
	Checkpoint2  CellType = "checkpoint_2"
	Checkpoint3  CellType = "checkpoint_3"

	Target            CellType = "target"
	TrackCrashTarget  CellType = "track_crash_target"
	CrashTarget       CellType = "crash_target"
	SevereCrashTarget CellType = "severe_crash_target"

	Car1 CellType = "car_1"
	Car2 CellType = "car_2"
	Car3 CellType = "car_3"
	Car4 CellType = "car_4"
)

const (
	Cols      = 40
	Rows      = 40
	BlockSize = 20

	MaxPlayers     = 4
	MinPlayers     = 1
	MinCheckpoints = 2
	MaxCheckpoints = 3
	MinDamageMax   = 1
	MaxDamageMax   = 9
	MinLaps        = 1
	MaxLaps        = 9

	DefaultPlayers   = 2
	DefaultDamageMax = 3
	DefaultLaps      = 1
)

// cellTypeInfo is the behavior and rendering data for one CellType
type cellTypeInfo struct {
	Code       byte
	Surface    bool // legal to drive on
	Checkpoint int  // 0 finish, 1..3 checkpoint, -1 none
	Selectable bool // may be submitted as a move
	Car        int  // 1..4 for car markers, 0 otherwise
	Color      string
	HoverColor string
}

var cellTypes = map[CellType]cellTypeInfo{
	OffTrack:          {Code: 'X', Checkpoint: -1, Color: "#000000", HoverColor: "#080808"},
	TrackSurface:      {Code: '.', Surface: true, Checkpoint: -1, Color: "#CCCCCC", HoverColor: "#DDDDDD"},
	StartStop:         {Code: 'S', Surface: true, Checkpoint: 0, Color: "#888888", HoverColor: "#999999"},
	Checkpoint1:       {Code: 'q', Surface: true, Checkpoint: 1, Color: "#888888", HoverColor: "#999999"},
	Checkpoint2:       {Code: 'w', Surface: true, Checkpoint: 2, Color: "#888888", HoverColor: "#999999"},
	Checkpoint3:       {Code: 'e', Surface: true, Checkpoint: 3, Color: "#888888", HoverColor: "#999999"},
	Target:            {Code: 'T', Checkpoint: -1, Selectable: true, Color: "#338800", HoverColor: "#55aa22"},
	TrackCrashTarget:  {Code: '@', Checkpoint: -1, Selectable: true, Color: "#BB6633", HoverColor: "#DD8855"},
	CrashTarget:       {Code: '!', Checkpoint: -1, Selectable: true, Color: "#CC3333", HoverColor: "#EE5555"},
	SevereCrashTarget: {Code: '*', Checkpoint: -1, Selectable: true, Color: "#EE1111", HoverColor: "#FF2222"},
	Car1:              {Code: '1', Checkpoint: -1, Car: 1, Color: "#5577DD", HoverColor: "#7799FF"},
	Car2:              {Code: '2', Checkpoint: -1, Car: 2, Color: "#888800", HoverColor: "#AAAA22"},
	Car3:              {Code: '3', Checkpoint: -1, Car: 3, Color: "#8855DD", HoverColor: "#AA77FF"},
	Car4:              {Code: '4', Checkpoint: -1, Car: 4, Color: "#DD7733", HoverColor: "#FF9955"},
}

// authoringCodes maps layout characters to base terrain. Digits are handled separately.
var authoringCodes = map[byte]CellType{
	'X': OffTrack,
	'x': OffTrack,
	'.': TrackSurface,
	'o': TrackSurface,
	'O': TrackSurface,
	'S': StartStop,
	's': StartStop,
	'q': Checkpoint1,
	'Q': Checkpoint1,
	'w': Checkpoint2,
	'W': Checkpoint2,
	'e': Checkpoint3,
	'E': Checkpoint3,
}

var carTypes = [MaxPlayers]CellType{Car1, Car2, Car3, Car4}

// Code returns the single-character authoring code of the type
func (t CellType) Code() byte {
	if info, ok := cellTypes[t]; ok {
		return info.Code
	}
	return '?'
}

// IsSurface reports whether cars may legally drive over the type
func (t CellType) IsSurface() bool {
	return cellTypes[t].Surface
}

// IsTarget reports whether the type is an overlay a move may be submitted to
func (t CellType) IsTarget() bool {
	return cellTypes[t].Selectable
}

// IsCar reports whether the type is a player marker
func (t CellType) IsCar() bool {
	return cellTypes[t].Car > 0
}

// CarNumber returns 1..4 for car markers and 0 otherwise
func (t CellType) CarNumber() int {
	return cellTypes[t].Car
}

// CheckpointIndex returns 0 for the finish line, 1..3 for checkpoints and -1 otherwise
func (t CellType) CheckpointIndex() int {
	info, ok := cellTypes[t]
	if !ok {
		return -1
	}
	return info.Checkpoint
}

// Color returns the display color of the type
func (t CellType) Color() string {
	if info, ok := cellTypes[t]; ok {
		return info.Color
	}
	return "#FF0000"
}

// HoverColor returns the highlighted display color of the type
func (t CellType) HoverColor() string {
	if info, ok := cellTypes[t]; ok {
		return info.HoverColor
	}
	return t.Color()
}

// CarType returns the marker type for a 0-based player index
func CarType(player int) CellType {
	return carTypes[player]
}

// Cell is a single grid square
type Cell struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	BaseType CellType `json:"base_type"`
	Type     CellType `json:"type"`
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the component-wise difference
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// MatchState is the lifecycle state of a match
type MatchState string

const (
	NoGame  MatchState = "NOGAME"
	PreGame MatchState = "PREGAME"
	InGame  MatchState = "GAME"
	EndGame MatchState = "ENDGAME"
)

// Settings are the per-match options chosen before the start
type Settings struct {
	Players   int `json:"players"`
	DamageMax int `json:"damage_max"`
	Laps      int `json:"laps"`
}

// DefaultSettings returns the settings a new game starts with
func DefaultSettings() Settings {
	return Settings{
		Players:   DefaultPlayers,
		DamageMax: DefaultDamageMax,
		Laps:      DefaultLaps,
	}
}

// Label is decorative text attached to a cell
type Label struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// Messages holds the event texts shown to players
type Messages struct {
	Welcome          string `json:"welcome,omitempty"`
	Start            string `json:"start,omitempty"`
	NoLegalMoves     string `json:"no_legal_moves,omitempty"`
	SevereCrash      string `json:"severe_crash,omitempty"`
	Crash            string `json:"crash,omitempty"`
	Eliminated       string `json:"eliminated,omitempty"`
	AllEliminated    string `json:"all_eliminated,omitempty"`
	Win              string `json:"win,omitempty"`
	LapStarted       string `json:"lap_started,omitempty"`
	LapCompleted     string `json:"lap_completed,omitempty"`
	Checkpoint       string `json:"checkpoint,omitempty"`
	MissedCheckpoint string `json:"missed_checkpoint,omitempty"`
	WrongWay         string `json:"wrong_way,omitempty"`
	LapVoided        string `json:"lap_voided,omitempty"`
}

// TrackConfig is a track definition as stored on disk
type TrackConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Checkpoints int      `json:"checkpoints"`
	Layout      []string `json:"layout"`
	Labels      []Label  `json:"labels,omitempty"`
	Messages    Messages `json:"messages,omitempty"`
}

// PlayerStats is the read-only view of one player
type PlayerStats struct {
	Index      int        `json:"index"`
	Car        CellType   `json:"car"`
	Position   Position   `json:"position"`
	Previous   *Position  `json:"previous,omitempty"`
	Damage     int        `json:"damage"`
	Lap        int        `json:"lap"`
	Checkpoint int        `json:"checkpoint"`
	Speed      float64    `json:"speed"`
	Eliminated bool       `json:"eliminated"`
	Trajectory []Position `json:"trajectory"`
}

// LegendEntry describes how one cell type is displayed
type LegendEntry struct {
	Code       string `json:"code"`
	Color      string `json:"color"`
	HoverColor string `json:"hover_color"`
}

// GameState is a serializable snapshot of a match
type GameState struct {
	TrackName    string                   `json:"track_name"`
	State        MatchState               `json:"state"`
	Settings     Settings                 `json:"settings"`
	Checkpoints  int                      `json:"checkpoints"`
	Turn         int                      `json:"turn"`
	ActivePlayer int                      `json:"active_player"`
	Winner       int                      `json:"winner"`
	Players      []PlayerStats            `json:"players"`
	Targets      []Cell                   `json:"targets"`
	Grid         []string                 `json:"grid"`
	Labels       []Label                  `json:"labels,omitempty"`
	Legend       map[CellType]LegendEntry `json:"legend"`
	Message      string                   `json:"message"`
}

// EventType classifies an Event
type EventType string

const (
	EventMove             EventType = "move"
	EventCrash            EventType = "crash"
	EventSevereCrash      EventType = "severe_crash"
	EventNoLegalMoves     EventType = "no_legal_moves"
	EventCheckpoint       EventType = "checkpoint"
	EventMissedCheckpoint EventType = "missed_checkpoint"
	EventWrongWay         EventType = "wrong_way"
	EventLapStarted       EventType = "lap_started"
	EventLapCompleted     EventType = "lap_completed"
	EventLapVoided        EventType = "lap_voided"
	EventEliminated       EventType = "eliminated"
	EventWin              EventType = "win"
	EventAllEliminated    EventType = "all_eliminated"
	EventTurn             EventType = "turn"
)

// Event is a notification produced while resolving a move
type Event struct {
	Type     EventType `json:"type"`
	Player   int       `json:"player"`
	Message  string    `json:"message"`
	Position *Position `json:"position,omitempty"`
}

// MoveOutcome summarizes one accepted SubmitMove call
type MoveOutcome struct {
	Player int       `json:"player"`
	Kind   EventType `json:"kind"`
	From   Position  `json:"from"`
	To     Position  `json:"to"`
	Speed  float64   `json:"speed"`
	Events []Event   `json:"events"`
}
