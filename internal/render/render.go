package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
	"github.com/DoyleJ11/hanabi-table/internal/table"
)

const clientID = "terminal"

// Terminal prints every view it receives and treats each stdin line as an
// action key.
type Terminal struct {
	table *table.Table
	in    io.Reader
	out   io.Writer
	log   *zap.Logger
}

func NewTerminal(t *table.Table, in io.Reader, out io.Writer, log *zap.Logger) *Terminal {
	return &Terminal{table: t, in: in, out: out, log: log}
}

func (r *Terminal) Run(ctx context.Context) error {
	views := make(chan table.View, 16)
	if err := r.table.Subscribe(ctx, clientID, views); err != nil {
		return fmt.Errorf("subscribe terminal: %w", err)
	}
	defer r.table.Unsubscribe(context.Background(), clientID)

	go r.readKeys(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-views:
			if !ok {
				return nil
			}
			fmt.Fprint(r.out, Format(v))
		}
	}
}

// The scanner blocks on the reader, so this goroutine outlives ctx until the
// next line or EOF.
func (r *Terminal) readKeys(ctx context.Context) {
	sc := bufio.NewScanner(r.in)
	for sc.Scan() {
		key := strings.TrimSpace(sc.Text())
		if key == "" {
			continue
		}
		if err := r.table.Select(ctx, key); err != nil {
			return
		}
	}
	if err := sc.Err(); err != nil {
		r.log.Warn("stdin closed", zap.Error(err))
	}
}

// Format renders one view as boxes stacked top to bottom.
func Format(v table.View) string {
	var b strings.Builder
	title := fmt.Sprintf("|HANABI| player %d  v%d  %s", v.Self, v.Version, v.Phase)
	b.WriteString(pterm.LightCyan(title) + "\n")

	if v.GameOver != "" {
		over := pterm.DefaultBox.WithTitle(pterm.LightGreen("|GAME OVER|")).WithTitleTopCenter()
		b.WriteString(fitted(over, strings.Split(v.GameOver, "\n")))
		b.WriteString("\n")
	}
	if v.LastError != "" {
		b.WriteString(pterm.LightRed("! "+v.LastError) + "\n")
	}

	s := v.Visible
	if s == nil {
		b.WriteString("waiting for the server...\n")
		return b.String()
	}

	box := pterm.DefaultBox.WithHorizontalPadding(2)
	b.WriteString(fitted(box.WithTitle("|BOARD|"), boardLines(s)))
	b.WriteString("\n")

	// The session seat, not Snapshot.Self: most servers never send player_id.
	oppHighlight := highlighted(v.Animation, v.Self.Opponent())
	var opp []string
	for _, slot := range s.OpponentHand {
		opp = append(opp, mark(oppHighlight, slot.Index)+fmt.Sprintf("[%d] %s (%s)", slot.Index, slot.Card, slot.Knowledge.Revealed))
	}
	b.WriteString(fitted(box.WithTitle("|TEAMMATE|"), opp))
	b.WriteString("\n")

	ownHighlight := highlighted(v.Animation, v.Self)
	var own []string
	for _, slot := range s.OwnHand {
		own = append(own, mark(ownHighlight, slot.Index)+fmt.Sprintf("[%d] %s", slot.Index, slot.Knowledge.Revealed))
	}
	b.WriteString(fitted(box.WithTitle("|YOUR HAND|"), own))
	b.WriteString("\n")

	if line := Describe(v.Animation); line != "" {
		b.WriteString(pterm.LightYellow(line) + "\n")
	}

	if v.YourTurn {
		var acts []string
		for _, key := range engine.SortedActionKeys(s.Actions) {
			acts = append(acts, fmt.Sprintf("%3s: %s", key, s.Actions[key]))
		}
		b.WriteString(fitted(box.WithTitle("|YOUR MOVE|"), acts))
		b.WriteString("\n")
	}
	return b.String()
}

// fitted pads lines to the title's width. pterm's box panics when the title
// is wider than its content.
func fitted(p *pterm.BoxPrinter, lines []string) string {
	width := utf8.RuneCountInString(pterm.RemoveColorFromString(p.Title)) + 4
	if len(lines) == 0 {
		lines = []string{""}
	}
	padded := make([]string, len(lines))
	for i, l := range lines {
		n := utf8.RuneCountInString(pterm.RemoveColorFromString(l))
		padded[i] = l + strings.Repeat(" ", max(0, width-n))
	}
	return p.Sprint(strings.Join(padded, "\n"))
}

func boardLines(s *engine.Snapshot) []string {
	var fw []string
	for _, c := range engine.Colors {
		fw = append(fw, fmt.Sprintf("%s:%d", c, s.Fireworks[c]))
	}
	var discards []string
	for _, c := range s.Discards {
		discards = append(discards, c.String())
	}
	return []string{
		"fireworks " + strings.Join(fw, " "),
		fmt.Sprintf("lives %d  hints %d  deck %d", s.LifeTokens, s.InfoTokens, s.DeckSize),
		"discards " + strings.Join(discards, " "),
	}
}

// highlighted returns the slots of player's hand the animation points at.
func highlighted(a engine.Animation, player engine.PlayerID) []int {
	switch a := a.(type) {
	case engine.PlayOrDiscard:
		if a.Player == player {
			return []int{a.CardIndex}
		}
	case engine.Hint:
		if a.Target == player {
			return a.Affected
		}
	}
	return nil
}

func mark(slots []int, idx int) string {
	if slices.Contains(slots, idx) {
		return "> "
	}
	return "  "
}

// Describe is a one-line caption for an animation, empty for None.
func Describe(a engine.Animation) string {
	switch a := a.(type) {
	case engine.PlayOrDiscard:
		verb := "plays"
		if a.Kind == engine.ActionDiscard {
			verb = "discards"
		}
		return fmt.Sprintf("player %d %s slot %d", a.Player, verb, a.CardIndex)
	case engine.Hint:
		return fmt.Sprintf("hint to player %d: %s %s on slots %v", a.Target, a.Type, a.Value, a.Affected)
	default:
		return ""
	}
}
