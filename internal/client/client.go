package client

import (
	"log"
	"net"
	"strconv"
	"sync"

	"bombernet/internal/netutil"
	"bombernet/internal/wire"
)

// Client holds the two open endpoints described in §4.4: a reliable
// stream to the server and a datagram endpoint to/from the local UI. A
// single mutex guards state, and Draw encode+send happens while holding
// it, matching §5's "Draw encoding and send happens under the lock to
// prevent interleaving with concurrent projection updates."
type Client struct {
	cfg    Config
	logger *log.Logger

	serverConn net.Conn
	uiConn     *net.UDPConn
	uiAddr     *net.UDPAddr

	mu     sync.Mutex
	state  *state
	joined bool
}

// New builds a Client; Connect must be called before Run.
func New(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{cfg: cfg, logger: logger, state: newState()}
}

// Connect dials the server over TCP (v4-preferred, per §6) and opens the
// UDP socket used for both receiving from and sending to the local UI.
func (c *Client) Connect() error {
	serverAddr, err := netutil.ResolveTCPPreferV4(c.cfg.ServerAddress)
	if err != nil {
		return err
	}
	conn, err := net.DialTCP("tcp", nil, serverAddr)
	if err != nil {
		return err
	}
	conn.SetNoDelay(true)
	c.serverConn = conn

	guiHost, guiPort, err := netutil.SplitGUIAddress(c.cfg.GUIAddress)
	if err != nil {
		conn.Close()
		return err
	}
	c.uiAddr, err = net.ResolveUDPAddr("udp", net.JoinHostPort(guiHost, guiPort))
	if err != nil {
		conn.Close()
		return err
	}

	localAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort("", strconv.Itoa(c.cfg.Port)))
	if err != nil {
		conn.Close()
		return err
	}
	udpConn, err := net.ListenUDP("udp", localAddr)
	if err != nil {
		conn.Close()
		return err
	}
	c.uiConn = udpConn

	return nil
}

// Run reads the server stream and the UI datagram socket concurrently
// (§5's two client activities) until either the server connection or the
// UI socket ends, and returns that reader's error. It blocks; callers
// typically run it directly from main after Connect.
func (c *Client) Run() error {
	defer c.uiConn.Close()
	defer c.serverConn.Close()

	done := make(chan error, 1)
	go func() { done <- c.readUI() }()
	go func() { done <- c.readServer() }()

	return <-done
}

func (c *Client) readServer() error {
	framer := wire.NewServerMessageFramer()
	buf := make([]byte, 8192)
	for {
		n, err := c.serverConn.Read(buf)
		if n > 0 {
			msgs, ferr := framer.Feed(buf[:n])
			for _, m := range msgs {
				c.handleServerMessage(m)
			}
			if ferr != nil {
				c.logger.Printf("[client] fatal framing error from server: %v", ferr)
				return ferr
			}
		}
		if err != nil {
			c.logger.Printf("[client] server connection ended: %v", err)
			return err
		}
	}
}

func (c *Client) readUI() error {
	buf := make([]byte, 2048)
	for {
		n, _, err := c.uiConn.ReadFromUDP(buf)
		if err != nil {
			c.logger.Printf("[client] UI socket ended: %v", err)
			return err
		}
		msg, ok := wire.DecodeDatagram(buf[:n], wire.DecodeInputMessage)
		if !ok {
			continue // malformed UI datagram: drop, continue (§7)
		}
		c.handleInput(msg)
	}
}
