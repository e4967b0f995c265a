package term

// Color is a 16-colour ANSI palette entry.
type Color int

const (
	ColorNone Color = iota
	ColorDefault
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorLightGray
	ColorDarkGray
	ColorLightRed
	ColorLightGreen
	ColorLightYellow
	ColorLightBlue
	ColorLightMagenta
	ColorLightCyan
	ColorWhite
)

// foreground SGR codes; background codes are these plus 10
var fgCodes = map[Color]int{
	ColorNone:         39,
	ColorDefault:      39,
	ColorBlack:        30,
	ColorRed:          31,
	ColorGreen:        32,
	ColorYellow:       33,
	ColorBlue:         34,
	ColorMagenta:      35,
	ColorCyan:         36,
	ColorLightGray:    37,
	ColorDarkGray:     90,
	ColorLightRed:     91,
	ColorLightGreen:   92,
	ColorLightYellow:  93,
	ColorLightBlue:    94,
	ColorLightMagenta: 95,
	ColorLightCyan:    96,
	ColorWhite:        97,
}

// Mood is a text attribute.
type Mood int

const (
	MoodNone Mood = iota
	MoodBold
	MoodDim
	MoodUnderlined
	MoodBlinking
	MoodReverse
)

type moodCodes struct {
	set   int
	reset int
}

var moods = map[Mood]moodCodes{
	MoodBold:       {1, 22},
	MoodDim:        {2, 22},
	MoodUnderlined: {4, 24},
	MoodBlinking:   {5, 25},
	MoodReverse:    {7, 27},
}

// ForegroundColor returns the current foreground colour.
func (t *Term) ForegroundColor() Color { return t.fg }

// BackgroundColor returns the current background colour.
func (t *Term) BackgroundColor() Color { return t.bg }

// TextMood returns the current text attribute.
func (t *Term) TextMood() Mood { return t.mood }

// SetForegroundColor changes the foreground colour of later output.
func (t *Term) SetForegroundColor(c Color) {
	code, ok := fgCodes[c]
	if !ok || c == t.fg {
		return
	}
	t.printf("\x1b[%dm", code)
	t.fg = c
}

// SetBackgroundColor changes the background colour of later output.
func (t *Term) SetBackgroundColor(c Color) {
	code, ok := fgCodes[c]
	if !ok || c == t.bg {
		return
	}
	t.printf("\x1b[%dm", code+10)
	t.bg = c
}

// SetTextMood replaces the current text attribute with m.
func (t *Term) SetTextMood(m Mood) {
	if m == t.mood {
		return
	}
	t.ClearMood()
	if codes, ok := moods[m]; ok {
		t.printf("\x1b[%dm", codes.set)
		t.mood = m
	}
}

// ClearColors resets both colours to the terminal defaults.
func (t *Term) ClearColors() {
	if t.fg != ColorNone {
		t.SetForegroundColor(ColorDefault)
	}
	if t.bg != ColorNone {
		t.SetBackgroundColor(ColorDefault)
	}
	t.fg, t.bg = ColorNone, ColorNone
}

// ClearMood turns off the current text attribute.
func (t *Term) ClearMood() {
	if codes, ok := moods[t.mood]; ok {
		t.printf("\x1b[%dm", codes.reset)
	}
	t.mood = MoodNone
}

// ClearTextFormatters resets colours and attributes in one sequence.
func (t *Term) ClearTextFormatters() {
	t.writeString("\x1b[0m")
	t.fg, t.bg, t.mood = ColorNone, ColorNone, MoodNone
}
