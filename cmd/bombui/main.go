// Command bombui is a minimal terminal reference UI for bombclient's
// Input/Draw datagram boundary. It exists to exercise that boundary by
// hand; it is not part of the hard core (§1 of the design keeps the real
// UI an external collaborator reached only through this same contract).
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"bombernet/internal/wire"
)

func main() {
	listenPort := flag.Int("listen-port", 0, "UDP port this UI binds on (must match bombclient's --gui-address)")
	clientAddress := flag.String("client-address", "", "host:port of bombclient's UDP socket")
	flag.Parse()

	if *listenPort == 0 || *clientAddress == "" {
		flag.Usage()
		os.Exit(1)
	}

	clientAddr, err := net.ResolveUDPAddr("udp", *clientAddress)
	if err != nil {
		log.Fatalf("bombui: resolve --client-address: %v", err)
	}
	localAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", *listenPort))
	if err != nil {
		log.Fatalf("bombui: resolve --listen-port: %v", err)
	}
	conn, err := net.ListenUDP("udp", localAddr)
	if err != nil {
		log.Fatalf("bombui: listen: %v", err)
	}
	defer conn.Close()

	if err := termbox.Init(); err != nil {
		log.Fatalf("bombui: termbox init: %v", err)
	}
	defer termbox.Close()

	ui := &ui{conn: conn, clientAddr: clientAddr}
	go ui.readDraws()
	ui.runInputLoop()
}

// ui holds the reference renderer's state: the last Draw received, so key
// events and incoming Draws never race on the same termbox buffer.
type ui struct {
	conn       *net.UDPConn
	clientAddr *net.UDPAddr

	last wire.DrawMessage
	have bool
}

func (u *ui) send(msg wire.InputMessage) {
	data, err := wire.EncodeInputMessage(msg)
	if err != nil {
		return
	}
	u.conn.WriteToUDP(data, u.clientAddr)
}

func (u *ui) readDraws() {
	buf := make([]byte, 8192)
	for {
		n, _, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		msg, ok := wire.DecodeDatagram(buf[:n], wire.DecodeDrawMessage)
		if !ok {
			continue
		}
		u.last = msg
		u.have = true
		u.render()
	}
}

func (u *ui) runInputLoop() {
	for {
		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		switch ev.Key {
		case termbox.KeyEsc, termbox.KeyCtrlC:
			return
		case termbox.KeyArrowUp:
			u.send(wire.InputMessage{Type: wire.InputMove, Direction: wire.DirUp})
		case termbox.KeyArrowRight:
			u.send(wire.InputMessage{Type: wire.InputMove, Direction: wire.DirRight})
		case termbox.KeyArrowDown:
			u.send(wire.InputMessage{Type: wire.InputMove, Direction: wire.DirDown})
		case termbox.KeyArrowLeft:
			u.send(wire.InputMessage{Type: wire.InputMove, Direction: wire.DirLeft})
		case termbox.KeySpace:
			u.send(wire.InputMessage{Type: wire.InputPlaceBomb})
		default:
			if ev.Ch == 'b' {
				u.send(wire.InputMessage{Type: wire.InputPlaceBlock})
			}
		}
	}
}

func (u *ui) render() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	if !u.have {
		termbox.Flush()
		return
	}
	switch u.last.Type {
	case wire.DrawLobby:
		u.renderLobby(u.last.Lobby)
	case wire.DrawGame:
		u.renderGame(u.last.Game)
	}
	termbox.Flush()
}

func (u *ui) renderLobby(l wire.DrawLobbyData) {
	drawText(0, 0, fmt.Sprintf("%s — waiting for players (%d/%d)", l.ServerName, len(l.Players), l.PlayersCount))
	row := 2
	for id, p := range l.Players {
		drawText(0, row, fmt.Sprintf("  player %d: %s (%s)", id, p.Name, p.Address))
		row++
	}
}

func (u *ui) renderGame(g wire.DrawGameData) {
	drawText(0, 0, fmt.Sprintf("%s — turn %d/%d", g.ServerName, g.Turn, g.GameLength))

	blocks := make(map[wire.Position]bool, len(g.Blocks))
	for _, p := range g.Blocks {
		blocks[p] = true
	}
	bombs := make(map[wire.Position]bool, len(g.Bombs))
	for _, b := range g.Bombs {
		bombs[b.Position] = true
	}
	explosions := make(map[wire.Position]bool, len(g.Explosions))
	for _, p := range g.Explosions {
		explosions[p] = true
	}
	players := make(map[wire.Position]wire.PlayerId, len(g.PlayerPositions))
	for id, p := range g.PlayerPositions {
		players[p] = id
	}

	boardTop := 2
	for y := uint16(0); y < g.SizeY; y++ {
		for x := uint16(0); x < g.SizeX; x++ {
			pos := wire.Position{X: x, Y: y}
			ch := '.'
			switch {
			case explosions[pos]:
				ch = '*'
			case bombs[pos]:
				ch = 'o'
			case blocks[pos]:
				ch = '#'
			}
			if id, ok := players[pos]; ok {
				ch = rune('0' + id%10)
			}
			termbox.SetCell(int(x)*2, boardTop+int(y), ch, termbox.ColorDefault, termbox.ColorDefault)
		}
	}

	row := boardTop + int(g.SizeY) + 1
	for id, score := range g.Scores {
		name := g.Players[id].Name
		drawText(0, row, fmt.Sprintf("  player %d (%s): %d", id, name, score))
		row++
	}
}

// drawText writes s starting at (x,y), advancing by each rune's display
// width so multi-column glyphs don't overlap the next character.
func drawText(x, y int, s string) {
	col := x
	for _, r := range s {
		termbox.SetCell(col, y, r, termbox.ColorDefault, termbox.ColorDefault)
		col += runewidth.RuneWidth(r)
	}
}
