package quest

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/skills"
)

const (
	MinScreenW = 56
	MinScreenH = 18

	hudHeight  = 2
	panelWidth = 24
	playerRune = '@'
)

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.player == nil || g.current == nil {
		dst.DrawTextCentered(dst.Height()/2, "Loading...")
		return
	}

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		g.renderTooSmall(dst)
		return
	}

	logLines := min(g.cfg.UI.LogLines, dst.Height()/4)
	view := core.NewRect(0, hudHeight, dst.Width()-panelWidth-1, dst.Height()-hudHeight-logLines-1)

	g.renderHUD(dst)
	g.renderMap(dst, view)
	dst.DrawVLine(view.Right(), hudHeight, view.H, '│')
	g.renderPanel(dst, core.NewRect(view.Right()+2, hudHeight, panelWidth-1, view.H))
	g.renderLog(dst, view.Bottom(), logLines)

	switch {
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case g.mode == ModeInventory:
		g.renderInventory(dst, view)
	case g.mode == ModeEquipment:
		g.renderEquipment(dst, view)
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
	dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d, have %dx%d", MinScreenW, MinScreenH, dst.Width(), dst.Height()))
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Tile Quest - %s", g.current.file.Name)
	if g.cfg.UI.ShowCoords {
		hud += fmt.Sprintf("  (%d,%d) facing %s", g.player.Pos.X, g.player.Pos.Y, g.player.Facing)
	}
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)

	if g.mode == ModeGathering {
		status := "Gathering..."
		dst.DrawTextColored(dst.Width()-len(status)-1, 0, status, core.ColorBrightYellow)
	}
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// camera returns the map coordinate drawn at the top-left of the view. Maps
// smaller than the view are centered.
func (g *Game) camera(view core.Rect) core.Point {
	m := g.current.m
	axis := func(player, mapSize, viewSize int) int {
		if mapSize <= viewSize {
			return -(viewSize - mapSize) / 2
		}
		return core.Clamp(player-viewSize/2, 0, mapSize-viewSize)
	}
	return core.Pt(
		axis(g.player.Pos.X, m.Width, view.W),
		axis(g.player.Pos.Y, m.Height, view.H),
	)
}

// renderMap draws terrain, objects and the player inside view.
func (g *Game) renderMap(dst *core.Screen, view core.Rect) {
	a := g.current
	cam := g.camera(view)

	for vy := 0; vy < view.H; vy++ {
		for vx := 0; vx < view.W; vx++ {
			p := core.Pt(cam.X+vx, cam.Y+vy)
			if !a.m.InBounds(p) {
				continue
			}
			kind := a.m.TileAt(p).Kind
			dst.SetColored(view.X+vx, view.Y+vy, kind.DrawRune(), kind.Color())
		}
	}

	for _, id := range a.order {
		obj := a.objects[id]
		r, c := obj.Def.Rune(), core.ParseColor(obj.Def.Color)
		if obj.Depleted {
			dr, ok := obj.Def.DepletedRune()
			if !ok {
				continue
			}
			r, c = dr, core.ParseColor(obj.Def.DepletedColor)
		}
		g.plot(dst, view, cam, obj.Pos, r, c)
	}

	g.plot(dst, view, cam, g.player.Pos, playerRune, core.ColorBrightYellow)
}

func (g *Game) plot(dst *core.Screen, view core.Rect, cam, p core.Point, r rune, c core.Color) {
	at := core.Pt(view.X+p.X-cam.X, view.Y+p.Y-cam.Y)
	if !view.Contains(at) {
		return
	}
	dst.SetColored(at.X, at.Y, r, c)
}

// renderPanel draws skills, tools and the gathering progress. Lines past the
// bottom of r are dropped.
func (g *Game) renderPanel(dst *core.Screen, r core.Rect) {
	y := r.Y
	put := func(indent int, text string, c core.Color) {
		if y < r.Bottom() {
			dst.DrawTextColored(r.X+indent, y, truncate(text, r.W-indent), c)
		}
		y++
	}

	if g.session != nil && g.session.Active() {
		barW := r.W - 2
		filled := int(g.session.Progress() * float64(barW))
		put(0, "["+strings.Repeat("#", filled)+strings.Repeat(".", barW-filled)+"]", core.ColorBrightGreen)
		y++
	}

	put(0, "Skills", core.ColorBrightWhite)
	for _, s := range skills.All() {
		lvl := g.player.Skills.Level(s)
		put(0, fmt.Sprintf("%-12s %2d", title(string(s)), lvl), core.ColorDefault)
		if lvl < skills.MaxLevel {
			xp := g.player.Skills.XP(s)
			put(1, fmt.Sprintf("%d/%d xp", xp, skills.XPForLevel(lvl+1)), core.ColorGray)
		}
	}
	y++

	used := g.player.Inventory.Size() - g.player.Inventory.FreeSlots()
	put(0, fmt.Sprintf("Bag %d/%d", used, g.player.Inventory.Size()), core.ColorDefault)
	y++

	put(0, "Toolbelt", core.ColorBrightWhite)
	tools := g.player.Toolbelt.Tools()
	if len(tools) == 0 {
		put(1, "(empty)", core.ColorGray)
	}
	for _, id := range tools {
		put(1, g.catalog.ItemName(id), core.ColorDefault)
	}
	if weapon := g.player.Equipment.Get(content.SlotWeapon); weapon != "" {
		put(1, "Wield: "+g.catalog.ItemName(weapon), core.ColorDefault)
	}
}

func (g *Game) renderLog(dst *core.Screen, top, lines int) {
	dst.DrawHLine(0, top, dst.Width(), '─')
	msgs := g.log.Lines()
	if len(msgs) > lines {
		msgs = msgs[len(msgs)-lines:]
	}
	for i, msg := range msgs {
		c := core.ColorGray
		if i == len(msgs)-1 {
			c = core.ColorDefault
		}
		dst.DrawTextColored(1, top+1+i, truncate(msg, dst.Width()-2), c)
	}
}

func (g *Game) renderInventory(dst *core.Screen, view core.Rect) {
	const cellW = 12
	size := g.player.Inventory.Size()
	rows := (size + inventoryColumns - 1) / inventoryColumns
	box := core.NewRect(view.X+2, view.Y+1, inventoryColumns*cellW+3, min(rows+4, view.H-1))
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextColored(box.X+2, box.Y, " Inventory ", core.ColorBrightWhite)

	visible := box.H - 4
	first := 0
	if row := g.invCursor / inventoryColumns; row >= visible {
		first = row - visible + 1
	}
	for i, stack := range g.player.Inventory.Slots() {
		row := i/inventoryColumns - first
		if row < 0 || row >= visible {
			continue
		}
		x := box.X + 2 + (i%inventoryColumns)*cellW
		y := box.Y + 1 + row
		label := "-"
		if !stack.Empty() {
			label = shortName(g.catalog.ItemName(stack.ItemID), cellW-4)
			if stack.Count > 1 {
				label = fmt.Sprintf("%s x%d", shortName(g.catalog.ItemName(stack.ItemID), cellW-6), stack.Count)
			}
		}
		c := core.ColorDefault
		if i == g.invCursor {
			c = core.ColorBrightYellow
			label = ">" + label
		} else {
			label = " " + label
		}
		dst.DrawTextColored(x, y, truncate(label, cellW-1), c)
	}
	dst.DrawTextColored(box.X+2, box.Bottom()-2, "enter use  x drop  esc close", core.ColorGray)
}

func (g *Game) renderEquipment(dst *core.Screen, view core.Rect) {
	slots := content.Slots()
	box := core.NewRect(view.X+2, view.Y+1, 36, len(slots)+4)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextColored(box.X+2, box.Y, " Equipment ", core.ColorBrightWhite)

	for i, slot := range slots {
		name := "-"
		if id := g.player.Equipment.Get(slot); id != "" {
			name = g.catalog.ItemName(id)
		}
		line := fmt.Sprintf(" %-7s %s", title(string(slot)), name)
		c := core.ColorDefault
		if i == g.eqCursor {
			line = ">" + line[1:]
			c = core.ColorBrightYellow
		}
		dst.DrawTextColored(box.X+2, box.Y+1+i, truncate(line, box.W-4), c)
	}
	dst.DrawTextColored(box.X+2, box.Bottom()-2, "enter remove  esc close", core.ColorGray)
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 6
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-5)/2, boxW, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// shortName trims an item name to fit a grid cell.
func shortName(s string, n int) string {
	return truncate(s, max(1, n))
}
